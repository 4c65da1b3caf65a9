package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
)

const (
	maxTitreSignalement       = 100
	maxDescriptionSignalement = 500
	responsableSysteme        = "Système"
)

// SignalementService handles citizen reports / Gère les signalements citoyens
type SignalementService struct {
	repo          ports.Repository[domain.Signalement]
	files         ports.FileStorage
	interventions *InterventionService
	now           func() time.Time
}

// NewSignalementService creates citizen report service / Crée le service des signalements
func NewSignalementService(
	repo ports.Repository[domain.Signalement],
	files ports.FileStorage,
	interventions *InterventionService,
) *SignalementService {
	return &SignalementService{repo: repo, files: files, interventions: interventions, now: time.Now}
}

// validateSignalement returns every field violation joined / Retourne toutes les violations de champ
func validateSignalement(s *domain.Signalement) error {
	var errs []error
	switch {
	case isBlank(s.Titre):
		errs = append(errs, domain.Validation("titre", "Le titre est obligatoire"))
	case utf8.RuneCountInString(s.Titre) > maxTitreSignalement:
		errs = append(errs, domain.Validation("titre", "Le titre ne peut pas dépasser 100 caractères"))
	}
	switch {
	case isBlank(s.Description):
		errs = append(errs, domain.Validation("description", "La description est obligatoire"))
	case utf8.RuneCountInString(s.Description) > maxDescriptionSignalement:
		errs = append(errs, domain.Validation("description", "La description ne peut pas dépasser 500 caractères"))
	}
	if isBlank(s.Localisation) {
		errs = append(errs, domain.Validation("localisation", "La localisation est obligatoire"))
	}
	if isBlank(s.ContactNom) {
		errs = append(errs, domain.Validation("contactNom", "Le nom est obligatoire"))
	}
	switch {
	case isBlank(s.ContactEmail):
		errs = append(errs, domain.Validation("contactEmail", "L'email est obligatoire"))
	case !isValidEmail(s.ContactEmail):
		errs = append(errs, domain.Validation("contactEmail", "Format d'email invalide"))
	}
	if s.ContactTelephone != "" && !telephonePattern.MatchString(s.ContactTelephone) {
		errs = append(errs, domain.Validation("contactTelephone", "Le téléphone doit contenir 8 chiffres"))
	}
	return errors.Join(errs...)
}

// normalizeEnums parses type and urgency tokens in place
func normalizeEnums(s *domain.Signalement) error {
	t, err := domain.ParseSignalementType(string(s.Type))
	if err != nil {
		return err
	}
	u, err := domain.ParseNiveauUrgence(string(s.Urgence))
	if err != nil {
		return err
	}
	s.Type, s.Urgence = t, u
	return nil
}

// Create validates and stores a new report / Valide et enregistre un nouveau signalement
func (s *SignalementService) Create(ctx context.Context, sig *domain.Signalement) (*domain.Signalement, error) {
	sig.Clean()
	if err := validateSignalement(sig); err != nil {
		return nil, err
	}
	if err := normalizeEnums(sig); err != nil {
		return nil, err
	}

	now := s.now()
	sig.ID = ""
	sig.InterventionID = ""
	sig.Statut = domain.SignalementRecu
	sig.DateCreation = now
	sig.Historique = nil
	sig.Log("Signalement créé", sig.ContactNom, now)

	saved, err := s.repo.Save(ctx, sig)
	if err != nil {
		slog.Error("failed to create signalement", "err", err)
		return nil, err
	}
	return saved, nil
}

// Update replaces every field but id and creation date / Remplace tous les champs sauf id et date de création
func (s *SignalementService) Update(ctx context.Context, id string, sig *domain.Signalement) (*domain.Signalement, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sig.Clean()
	if err := validateSignalement(sig); err != nil {
		return nil, err
	}
	if err := normalizeEnums(sig); err != nil {
		return nil, err
	}
	if sig.Statut == "" {
		sig.Statut = existing.Statut
	} else if sig.Statut, err = domain.ParseStatutSignalement(string(sig.Statut)); err != nil {
		return nil, err
	}
	if sig.Historique == nil {
		sig.Historique = existing.Historique
	}

	sig.ID = existing.ID
	sig.DateCreation = existing.DateCreation
	return s.repo.Save(ctx, sig)
}

// UpdateStatut changes the status and logs it / Change le statut et l'historise
func (s *SignalementService) UpdateStatut(ctx context.Context, id, token string) (*domain.Signalement, error) {
	statut, err := domain.ParseStatutSignalement(token)
	if err != nil {
		return nil, err
	}
	sig, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sig.Statut = statut
	sig.Log("Statut mis à jour : "+string(statut), responsableSysteme, s.now())
	return s.repo.Save(ctx, sig)
}

// LierIntervention links an existing intervention / Lie une intervention existante
func (s *SignalementService) LierIntervention(ctx context.Context, id, interventionID string) (*domain.Signalement, error) {
	if isBlank(interventionID) {
		return nil, domain.InvalidArgument("interventionId requis")
	}
	sig, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sig.InterventionID = interventionID
	sig.Log("Intervention liée : "+interventionID, responsableSysteme, s.now())
	return s.repo.Save(ctx, sig)
}

// UploadPhoto stores the file and records its name / Stocke le fichier et enregistre son nom
func (s *SignalementService) UploadPhoto(ctx context.Context, id, filename string, r io.Reader) (*domain.Signalement, error) {
	sig, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.files.Store(ctx, "signalement_"+id, filename, r)
	if err != nil {
		slog.Error("failed to store photo", "signalement_id", id, "err", err)
		return nil, domain.Internal("store photo", err)
	}

	previous := sig.Photo
	sig.Photo = name
	saved, err := s.repo.Save(ctx, sig)
	if err != nil {
		if delErr := s.files.Delete(ctx, name); delErr != nil {
			slog.Warn("orphan photo left in storage", "name", name, "err", delErr)
		}
		return nil, err
	}
	if previous != "" && previous != name {
		if err := s.files.Delete(ctx, previous); err != nil {
			slog.Warn("previous photo not deleted", "name", previous, "err", err)
		}
	}
	return saved, nil
}

// ConvertirEnIntervention opens an intervention from the report / Ouvre une intervention à partir du signalement
func (s *SignalementService) ConvertirEnIntervention(ctx context.Context, id, auteurID string) (*domain.Signalement, *domain.LifecycleResult, error) {
	sig, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sig.InterventionID != "" {
		return nil, nil, domain.InvalidArgument("signalement %s déjà lié à l'intervention %s", id, sig.InterventionID)
	}

	result, err := s.interventions.Create(ctx, &domain.Intervention{
		Titre:       sig.Titre,
		Type:        string(sig.Type),
		Description: sig.Description,
		Urgence:     sig.Urgence.ToUrgence(),
		CitoyenID:   sig.CitoyenID,
	})
	if err != nil {
		return nil, nil, err
	}

	responsable := auteurID
	if responsable == "" {
		responsable = responsableSysteme
	}
	sig.InterventionID = result.Intervention.ID
	sig.Statut = domain.SignalementEnTraitement
	sig.Log("Converti en intervention : "+result.Intervention.ID, responsable, s.now())

	saved, err := s.repo.Save(ctx, sig)
	if err != nil {
		slog.Error("intervention created but signalement not linked",
			"signalement_id", id, "intervention_id", result.Intervention.ID, "err", err)
		return nil, nil, err
	}
	return saved, result, nil
}

func (s *SignalementService) GetByID(ctx context.Context, id string) (*domain.Signalement, error) {
	return s.repo.Get(ctx, id)
}

func (s *SignalementService) GetAll(ctx context.Context) ([]*domain.Signalement, error) {
	return s.repo.GetAll(ctx)
}

// GetByStatut filters by status, unknown tokens match nothing / Filtre par statut
func (s *SignalementService) GetByStatut(ctx context.Context, token string) ([]*domain.Signalement, error) {
	statut, err := domain.ParseStatutSignalement(token)
	if err != nil {
		return []*domain.Signalement{}, nil
	}
	return s.repo.FindBy(ctx, "statut", string(statut))
}

// GetByType filters by category, unknown tokens match nothing / Filtre par type
func (s *SignalementService) GetByType(ctx context.Context, token string) ([]*domain.Signalement, error) {
	t, err := domain.ParseSignalementType(token)
	if err != nil {
		return []*domain.Signalement{}, nil
	}
	return s.repo.FindBy(ctx, "type", string(t))
}

// GetUrgents lists HIGH urgency reports
func (s *SignalementService) GetUrgents(ctx context.Context) ([]*domain.Signalement, error) {
	return s.repo.FindBy(ctx, "urgence", string(domain.NiveauHigh))
}

func (s *SignalementService) GetByCitoyen(ctx context.Context, citoyenID string) ([]*domain.Signalement, error) {
	return s.repo.FindBy(ctx, "citoyenId", citoyenID)
}
