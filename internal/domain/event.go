package domain

import "time"

// EventType names a lifecycle event / Nomme un événement du cycle de vie
type EventType string

const (
	EventInterventionCreated  EventType = "intervention.created"
	EventInterventionStatus   EventType = "intervention.status_changed"
	EventInterventionAssigned EventType = "intervention.assigned"
	EventInterventionDone     EventType = "intervention.completed"
	EventRessourceLowStock    EventType = "ressource.low_stock"
)

// LifecycleEvent is published on the event bus / Publié sur le bus d'événements
type LifecycleEvent struct {
	Type               EventType `json:"type"`
	InterventionID     string    `json:"interventionId,omitempty"`
	Statut             Statut    `json:"statut,omitempty"`
	PreviousStatut     Statut    `json:"previousStatut,omitempty"`
	TechnicienID       string    `json:"technicienId,omitempty"`
	EquipementID       string    `json:"equipementId,omitempty"`
	ServiceMunicipalID string    `json:"serviceMunicipalId,omitempty"`
	RessourceID        string    `json:"ressourceId,omitempty"`
	OccurredAt         time.Time `json:"occurredAt"`
}

// Side-effect targets / Cibles des effets de bord
const (
	TargetEquipement   = "equipement"
	TargetService      = "service_municipal"
	TargetNotification = "notification"
	TargetEventBus     = "event_bus"
)

// SideEffectWarning reports a secondary write that failed / Signale une écriture secondaire échouée
type SideEffectWarning struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

// LifecycleResult is the outcome of a lifecycle mutation / Résultat d'une mutation du cycle de vie
type LifecycleResult struct {
	Intervention *Intervention       `json:"intervention"`
	Warnings     []SideEffectWarning `json:"warnings,omitempty"`
}

// HasWarnings reports partial propagation / Indique une propagation partielle
func (r *LifecycleResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}
