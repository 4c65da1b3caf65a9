package domain

// ServiceInconnu labels interventions whose service cannot be resolved
const ServiceInconnu = "Inconnu"

// Statistiques is computed on demand and never persisted / Calculé à la demande, jamais persisté
type Statistiques struct {
	TauxResolution            float64            `json:"tauxResolution"`
	TempsMoyenIntervention    float64            `json:"tempsMoyenIntervention"` // hours
	NbInterventionsParService map[string]int     `json:"nbInterventionsParService"`
	NbInterventionsParZone    map[string]int     `json:"nbInterventionsParZone"`
	PerformanceTechniciens    map[string]float64 `json:"performanceTechniciens"`
	TopZonesProblemes         []string           `json:"topZonesProblemes"`
	TauxSatisfactionCitoyens  float64            `json:"tauxSatisfactionCitoyens"`
}
