package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseStatut(t *testing.T) {
	tests := []struct {
		token   string
		want    Statut
		wantErr bool
	}{
		{"EN_ATTENTE", StatutEnAttente, false},
		{"en_cours", StatutEnCours, false},
		{" terminee ", StatutTerminee, false},
		{"DONE", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseStatut(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatut(%q) err = %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatut(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseUrgence_RejectsUnknown(t *testing.T) {
	if _, err := ParseUrgence("CRITIQUE"); KindOf(err) != KindInvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
	if u, err := ParseUrgence("urgent"); err != nil || u != UrgenceUrgent {
		t.Errorf("ParseUrgence(urgent) = %q, %v", u, err)
	}
}

func TestIntervention_ChangeStatut(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	i := &Intervention{Statut: StatutEnAttente}

	entry := i.ChangeStatut(StatutEnCours, "u1", now)
	if entry.AncienStatut != StatutEnAttente || entry.NouveauStatut != StatutEnCours || entry.AuteurID != "u1" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if len(i.HistoriqueStatut) != 1 {
		t.Fatalf("history length = %d, want 1", len(i.HistoriqueStatut))
	}
	if i.DateDebut == nil || !i.DateDebut.Equal(now) {
		t.Errorf("dateDebut not stamped: %v", i.DateDebut)
	}

	// Backward transition is recorded, not rejected
	later := now.Add(time.Hour)
	i.ChangeStatut(StatutEnAttente, "u2", later)
	i.ChangeStatut(StatutEnCours, "u2", later.Add(time.Hour))
	if len(i.HistoriqueStatut) != 3 {
		t.Errorf("history length = %d, want 3", len(i.HistoriqueStatut))
	}
	if !i.DateDebut.Equal(now) {
		t.Errorf("dateDebut should keep first start, got %v", i.DateDebut)
	}
}

func TestIntervention_Duration(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	i := &Intervention{DateDebut: &start}
	if _, ok := i.Duration(); ok {
		t.Error("duration without end should not be known")
	}
	i.DateFin = &end
	if d, ok := i.Duration(); !ok || d != 90*time.Minute {
		t.Errorf("Duration() = %v, %v", d, ok)
	}
}

func TestRessource_ConsumeHasNoFloor(t *testing.T) {
	r := &RessourceMaterielle{QuantiteDisponible: 3, SeuilAlerte: 1}
	now := time.Now()
	r.Consume("i1", 2, now)
	r.Consume("i1", 2, now)
	if r.QuantiteDisponible != -1 {
		t.Errorf("QuantiteDisponible = %d, want -1", r.QuantiteDisponible)
	}
	if len(r.UtilisationsRecent) != 2 {
		t.Errorf("usage log length = %d, want 2", len(r.UtilisationsRecent))
	}
	if !r.BelowThreshold() {
		t.Error("stock should be below threshold")
	}
}

func TestSignalement_Clean(t *testing.T) {
	s := &Signalement{Localisation: "Place centrale", ContactTelephone: " "}
	s.Clean()
	if s.Coordonnees != "Non spécifié" {
		t.Errorf("Coordonnees = %q", s.Coordonnees)
	}
	if s.Adresse != "Place centrale" {
		t.Errorf("Adresse = %q", s.Adresse)
	}
	if s.ContactTelephone != "" {
		t.Errorf("ContactTelephone = %q", s.ContactTelephone)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("intervention", "x"), KindNotFound},
		{"invalid", InvalidArgument("bad %s", "token"), KindInvalidArgument},
		{"validation joined", errors.Join(Validation("titre", "requis"), Validation("email", "invalide")), KindValidation},
		{"plain error", errors.New("boom"), KindInternal},
		{"internal wrap", Internal("save", errors.New("disk")), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
