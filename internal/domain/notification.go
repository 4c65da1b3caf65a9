package domain

import "time"

// Notification types / Types de notification
const (
	NotificationAssignation = "ASSIGNATION"
	NotificationStatut      = "STATUT"
	NotificationInfo        = "INFO"
)

// Notification is a message for a citizen or a technician / Message pour un citoyen ou un technicien
type Notification struct {
	ID               string    `json:"id"`
	Message          string    `json:"message"`
	DateEnvoi        time.Time `json:"dateEnvoi"`
	StatutLecture    bool      `json:"statutLecture"`
	TypeNotification string    `json:"typeNotification"`
	CitoyenID        string    `json:"citoyenId,omitempty"`
	TechnicienID     string    `json:"technicienId,omitempty"`
	InterventionID   string    `json:"interventionId,omitempty"`
	DateCreation     time.Time `json:"dateCreation"`
}

func (n *Notification) DocumentID() string      { return n.ID }
func (n *Notification) SetDocumentID(id string) { n.ID = id }
