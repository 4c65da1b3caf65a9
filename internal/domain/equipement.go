package domain

import (
	"strings"
	"time"
)

// Etat is the operational state of an equipment / État opérationnel d'un équipement
type Etat string

const (
	EtatFonctionnel Etat = "FONCTIONNEL"
	EtatDefectueux  Etat = "DEFECTUEUX"
)

// IsValid checks if state is known / Vérifie si l'état est connu
func (e Etat) IsValid() bool {
	return e == EtatFonctionnel || e == EtatDefectueux
}

// ParseEtat parses a state token, case-insensitive / Analyse un état, insensible à la casse
func ParseEtat(token string) (Etat, error) {
	e := Etat(strings.ToUpper(strings.TrimSpace(token)))
	if !e.IsValid() {
		return "", InvalidArgument("état inconnu: %q", token)
	}
	return e, nil
}

// GeoPoint is a GeoJSON point, coordinates are [lon, lat]
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewGeoPoint builds a point / Construit un point
func NewGeoPoint(lon, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

// InterventionSummary is one entry of the equipment history / Entrée de l'historique d'un équipement
type InterventionSummary struct {
	InterventionID string    `json:"interventionId"`
	Titre          string    `json:"titre"`
	Date           time.Time `json:"date"`
	Technicien     string    `json:"technicien"`
}

// Equipement is a piece of public equipment / Équipement public
type Equipement struct {
	ID                     string                `json:"id"`
	Type                   string                `json:"type"`
	Adresse                string                `json:"adresse"`
	Etat                   Etat                  `json:"etat"`
	Localisation           *GeoPoint             `json:"localisation,omitempty"`
	DernieresInterventions []InterventionSummary `json:"dernieresInterventions"`
}

func (e *Equipement) DocumentID() string      { return e.ID }
func (e *Equipement) SetDocumentID(id string) { e.ID = id }
