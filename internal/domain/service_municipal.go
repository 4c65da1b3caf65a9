package domain

import "time"

// InterventionRecente is a snapshot in the service activity feed / Instantané du fil d'activité
type InterventionRecente struct {
	Titre        string    `json:"titre"`
	Statut       Statut    `json:"statut"`
	DateCreation time.Time `json:"dateCreation"`
	Urgence      Urgence   `json:"urgence"`
}

// ServiceMunicipal is a municipal department / Service municipal
type ServiceMunicipal struct {
	ID                  string                `json:"id"`
	Nom                 string                `json:"nom"`
	Description         string                `json:"description,omitempty"`
	DateCreation        time.Time             `json:"dateCreation"`
	InterventionsRecent []InterventionRecente `json:"interventionsRecent"`
}

func (s *ServiceMunicipal) DocumentID() string      { return s.ID }
func (s *ServiceMunicipal) SetDocumentID(id string) { s.ID = id }
