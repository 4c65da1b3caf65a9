package domain

import (
	"strings"
	"time"
)

// SignalementType categorises a citizen report / Catégorie d'un signalement
type SignalementType string

const (
	TypePothole  SignalementType = "POTHOLE"
	TypeLighting SignalementType = "LIGHTING"
	TypeGarbage  SignalementType = "GARBAGE"
	TypeTree     SignalementType = "TREE"
	TypeWater    SignalementType = "WATER"
	TypeSignal   SignalementType = "SIGNAL"
	TypeOther    SignalementType = "OTHER"
)

// ParseSignalementType parses a report type / Analyse un type de signalement
func ParseSignalementType(token string) (SignalementType, error) {
	t := SignalementType(strings.ToUpper(strings.TrimSpace(token)))
	switch t {
	case TypePothole, TypeLighting, TypeGarbage, TypeTree, TypeWater, TypeSignal, TypeOther:
		return t, nil
	}
	return "", InvalidArgument("type de signalement inconnu: %q", token)
}

// NiveauUrgence is the urgency of a citizen report / Urgence d'un signalement
type NiveauUrgence string

const (
	NiveauLow    NiveauUrgence = "LOW"
	NiveauMedium NiveauUrgence = "MEDIUM"
	NiveauHigh   NiveauUrgence = "HIGH"
)

// ParseNiveauUrgence parses a report urgency / Analyse l'urgence d'un signalement
func ParseNiveauUrgence(token string) (NiveauUrgence, error) {
	n := NiveauUrgence(strings.ToUpper(strings.TrimSpace(token)))
	switch n {
	case NiveauLow, NiveauMedium, NiveauHigh:
		return n, nil
	}
	return "", InvalidArgument("urgence de signalement inconnue: %q", token)
}

// ToUrgence maps report urgency onto intervention urgency / Convertit vers l'urgence d'intervention
func (n NiveauUrgence) ToUrgence() Urgence {
	if n == NiveauHigh {
		return UrgenceUrgent
	}
	return UrgenceNormal
}

// StatutSignalement is the processing state of a report / État de traitement d'un signalement
type StatutSignalement string

const (
	SignalementRecu         StatutSignalement = "RECU"
	SignalementEnTraitement StatutSignalement = "EN_TRAITEMENT"
	SignalementResolu       StatutSignalement = "RESOLU"
)

// ParseStatutSignalement parses a report status / Analyse le statut d'un signalement
func ParseStatutSignalement(token string) (StatutSignalement, error) {
	s := StatutSignalement(strings.ToUpper(strings.TrimSpace(token)))
	switch s {
	case SignalementRecu, SignalementEnTraitement, SignalementResolu:
		return s, nil
	}
	return "", InvalidArgument("statut de signalement inconnu: %q", token)
}

// Action is one entry of the report audit trail
type Action struct {
	Date        time.Time `json:"date"`
	Action      string    `json:"action"`
	Responsable string    `json:"responsable"`
}

// Signalement is a citizen report / Signalement citoyen
type Signalement struct {
	ID               string            `json:"id"`
	Titre            string            `json:"titre"`
	Description      string            `json:"description"`
	Type             SignalementType   `json:"type"`
	Urgence          NiveauUrgence     `json:"urgence"`
	Photo            string            `json:"photo,omitempty"`
	Localisation     string            `json:"localisation"`
	Coordonnees      string            `json:"coordonnees"`
	Adresse          string            `json:"adresse"`
	Statut           StatutSignalement `json:"statut"`
	ContactNom       string            `json:"contactNom"`
	ContactEmail     string            `json:"contactEmail"`
	ContactTelephone string            `json:"contactTelephone"`
	CitoyenID        string            `json:"citoyenId,omitempty"`
	InterventionID   string            `json:"interventionId,omitempty"`
	Historique       []Action          `json:"historique"`
	DateCreation     time.Time         `json:"dateCreation"`
}

func (s *Signalement) DocumentID() string      { return s.ID }
func (s *Signalement) SetDocumentID(id string) { s.ID = id }

// Clean fills optional location and contact fields / Complète les champs optionnels
func (s *Signalement) Clean() {
	if strings.TrimSpace(s.Coordonnees) == "" {
		s.Coordonnees = "Non spécifié"
	}
	if strings.TrimSpace(s.Adresse) == "" {
		s.Adresse = s.Localisation
	}
	s.ContactTelephone = strings.TrimSpace(s.ContactTelephone)
}

// Log appends an audit entry / Ajoute une entrée à l'historique
func (s *Signalement) Log(action, responsable string, at time.Time) {
	s.Historique = append(s.Historique, Action{Date: at, Action: action, Responsable: responsable})
}
