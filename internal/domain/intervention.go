package domain

import (
	"strings"
	"time"
)

// Statut is the lifecycle stage of an intervention / Étape du cycle de vie d'une intervention
type Statut string

const (
	StatutEnAttente Statut = "EN_ATTENTE"
	StatutEnCours   Statut = "EN_COURS"
	StatutTerminee  Statut = "TERMINEE"
)

// IsValid checks if status is known / Vérifie si le statut est connu
func (s Statut) IsValid() bool {
	return s == StatutEnAttente || s == StatutEnCours || s == StatutTerminee
}

// ParseStatut parses a status token, case-insensitive / Analyse un statut, insensible à la casse
func ParseStatut(token string) (Statut, error) {
	s := Statut(strings.ToUpper(strings.TrimSpace(token)))
	if !s.IsValid() {
		return "", InvalidArgument("statut inconnu: %q", token)
	}
	return s, nil
}

// Urgence is the priority of an intervention / Priorité d'une intervention
type Urgence string

const (
	UrgenceNormal Urgence = "NORMAL"
	UrgenceUrgent Urgence = "URGENT"
)

// IsValid checks if urgency is known / Vérifie si l'urgence est connue
func (u Urgence) IsValid() bool {
	return u == UrgenceNormal || u == UrgenceUrgent
}

// ParseUrgence parses an urgency token, case-insensitive / Analyse une urgence, insensible à la casse
func ParseUrgence(token string) (Urgence, error) {
	u := Urgence(strings.ToUpper(strings.TrimSpace(token)))
	if !u.IsValid() {
		return "", InvalidArgument("urgence inconnue: %q", token)
	}
	return u, nil
}

// SystemAuthor authors the comments written by the engine itself
const SystemAuthor = "system"

// Commentaire is one entry of the comment thread / Entrée du fil de commentaires
type Commentaire struct {
	AuteurID string    `json:"auteurId"`
	Texte    string    `json:"texte"`
	Date     time.Time `json:"date"`
}

// HistoriqueStatut records one status transition / Enregistre une transition de statut
type HistoriqueStatut struct {
	AncienStatut   Statut    `json:"ancienStatut"`
	NouveauStatut  Statut    `json:"nouveauStatut"`
	DateChangement time.Time `json:"dateChangement"`
	AuteurID       string    `json:"auteurId"`
}

// Intervention is a unit of field work / Unité de travail terrain
type Intervention struct {
	ID                 string             `json:"id"`
	Titre              string             `json:"titre"`
	Type               string             `json:"type,omitempty"`
	Description        string             `json:"description,omitempty"`
	Urgence            Urgence            `json:"urgence"`
	Statut             Statut             `json:"statut"`
	DateCreation       time.Time          `json:"dateCreation"`
	DateDebut          *time.Time         `json:"dateDebut,omitempty"`
	DateFin            *time.Time         `json:"dateFin,omitempty"`
	DureeReelle        *int               `json:"dureeReelle,omitempty"` // minutes, caller-supplied
	EquipementID       string             `json:"equipementId,omitempty"`
	TechnicienID       string             `json:"technicienId,omitempty"`
	CitoyenID          string             `json:"citoyenId,omitempty"`
	ServiceMunicipalID string             `json:"serviceMunicipalId,omitempty"`
	Commentaires       []Commentaire      `json:"commentaires"`
	HistoriqueStatut   []HistoriqueStatut `json:"historiqueStatut"`
}

func (i *Intervention) DocumentID() string      { return i.ID }
func (i *Intervention) SetDocumentID(id string) { i.ID = id }

// ChangeStatut appends one history entry then sets the new status / Ajoute une entrée d'historique puis change le statut
func (i *Intervention) ChangeStatut(to Statut, auteurID string, at time.Time) HistoriqueStatut {
	entry := HistoriqueStatut{
		AncienStatut:   i.Statut,
		NouveauStatut:  to,
		DateChangement: at,
		AuteurID:       auteurID,
	}
	i.HistoriqueStatut = append(i.HistoriqueStatut, entry)
	i.Statut = to
	if to == StatutEnCours && i.DateDebut == nil {
		i.DateDebut = &at
	}
	return entry
}

// AddCommentaire appends a comment / Ajoute un commentaire
func (i *Intervention) AddCommentaire(auteurID, texte string, at time.Time) {
	i.Commentaires = append(i.Commentaires, Commentaire{AuteurID: auteurID, Texte: texte, Date: at})
}

// IsActive reports whether work is still open / Indique si le travail est encore ouvert
func (i *Intervention) IsActive() bool {
	return i.Statut != StatutTerminee
}

// Duration returns end minus start when both are known / Retourne fin moins début si les deux sont connus
func (i *Intervention) Duration() (time.Duration, bool) {
	if i.DateDebut == nil || i.DateFin == nil {
		return 0, false
	}
	return i.DateFin.Sub(*i.DateDebut), true
}
