package dto

import "github.com/ahlemhorchani/smart-interventions/internal/domain"

// AssignRequest is DTO for technician assignment / DTO d'affectation d'un technicien
type AssignRequest struct {
	TechnicienID  string `json:"technicienId"`
	TechnicienNom string `json:"technicienNom"`
}

// CompleteRequest carries closing notes
type CompleteRequest struct {
	Notes string `json:"notes"`
}

// CommentRequest is DTO for a new comment / DTO d'un nouveau commentaire
type CommentRequest struct {
	AuteurID string `json:"auteurId"`
	Texte    string `json:"texte"`
}

// InterventionSummaryRequest feeds an equipment history entry
type InterventionSummaryRequest struct {
	InterventionID string `json:"interventionId"`
	Titre          string `json:"titre"`
	Technicien     string `json:"technicien"`
}

// RecentInterventionRequest feeds a service activity snapshot
type RecentInterventionRequest struct {
	Titre   string `json:"titre"`
	Statut  string `json:"statut"`
	Urgence string `json:"urgence"`
}

// LifecycleBody returns the intervention alone, or the intervention with its warnings / Retourne l'intervention seule, ou avec ses avertissements
func LifecycleBody(res *domain.LifecycleResult) any {
	if res.HasWarnings() {
		return res
	}
	return res.Intervention
}

// ConversionResponse is the outcome of turning a report into an intervention
type ConversionResponse struct {
	Signalement  *domain.Signalement        `json:"signalement"`
	Intervention *domain.Intervention       `json:"intervention"`
	Warnings     []domain.SideEffectWarning `json:"warnings,omitempty"`
}
