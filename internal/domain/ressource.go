package domain

import "time"

// Utilisation records one consumption of a resource / Enregistre une consommation de ressource
type Utilisation struct {
	InterventionID   string    `json:"interventionId"`
	QuantiteUtilisee int       `json:"quantiteUtilisee"`
	Date             time.Time `json:"date"`
}

// RessourceMaterielle is a consumable stock / Stock de consommable
type RessourceMaterielle struct {
	ID                           string        `json:"id"`
	Nom                          string        `json:"nom"`
	QuantiteDisponible           int           `json:"quantiteDisponible"`
	UniteMesure                  string        `json:"uniteMesure"`
	SeuilAlerte                  int           `json:"seuilAlerte"`
	DateDernierApprovisionnement *time.Time    `json:"dateDernierApprovisionnement,omitempty"`
	UtilisationsRecent           []Utilisation `json:"utilisationsRecent"`
}

func (r *RessourceMaterielle) DocumentID() string      { return r.ID }
func (r *RessourceMaterielle) SetDocumentID(id string) { r.ID = id }

// Consume appends a usage entry and decrements the stock, no floor / Ajoute une utilisation et décrémente le stock, sans plancher
func (r *RessourceMaterielle) Consume(interventionID string, quantite int, at time.Time) {
	r.UtilisationsRecent = append(r.UtilisationsRecent, Utilisation{
		InterventionID:   interventionID,
		QuantiteUtilisee: quantite,
		Date:             at,
	})
	r.QuantiteDisponible -= quantite
}

// BelowThreshold reports whether stock reached the alert threshold / Indique si le seuil d'alerte est atteint
func (r *RessourceMaterielle) BelowThreshold() bool {
	return r.QuantiteDisponible <= r.SeuilAlerte
}
