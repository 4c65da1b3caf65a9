package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML layout read by the seed command / Format YAML des données initiales
type Fixtures struct {
	Users         []UserFixture         `yaml:"users"`
	Services      []ServiceFixture      `yaml:"services"`
	Equipements   []EquipementFixture   `yaml:"equipements"`
	Ressources    []RessourceFixture    `yaml:"ressources"`
	Interventions []InterventionFixture `yaml:"interventions"`
}

// Ref fields name an entity inside the file, interventions point at them
type UserFixture struct {
	Ref        string `yaml:"ref"`
	Nom        string `yaml:"nom"`
	Prenom     string `yaml:"prenom"`
	Email      string `yaml:"email"`
	MotDePasse string `yaml:"motDePasse"`
	Role       string `yaml:"role"`
	Telephone  string `yaml:"telephone"`
}

type ServiceFixture struct {
	Ref         string `yaml:"ref"`
	Nom         string `yaml:"nom"`
	Description string `yaml:"description"`
}

type EquipementFixture struct {
	Ref          string    `yaml:"ref"`
	Type         string    `yaml:"type"`
	Adresse      string    `yaml:"adresse"`
	Etat         string    `yaml:"etat"`
	Localisation []float64 `yaml:"localisation"` // [lon, lat]
}

type RessourceFixture struct {
	Nom                string `yaml:"nom"`
	QuantiteDisponible int    `yaml:"quantiteDisponible"`
	UniteMesure        string `yaml:"uniteMesure"`
	SeuilAlerte        int    `yaml:"seuilAlerte"`
}

type InterventionFixture struct {
	Titre       string `yaml:"titre"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Urgence     string `yaml:"urgence"`
	Statut      string `yaml:"statut"` // target status, reached through the lifecycle
	Service     string `yaml:"service"`
	Equipement  string `yaml:"equipement"`
	Technicien  string `yaml:"technicien"`
	Notes       string `yaml:"notes"`
}

// SeedReport counts what was created / Compte les entités créées
type SeedReport struct {
	Users         int `json:"users"`
	Services      int `json:"services"`
	Equipements   int `json:"equipements"`
	Ressources    int `json:"ressources"`
	Interventions int `json:"interventions"`
	Warnings      int `json:"warnings"`
}

// LoadFixtures decodes a fixtures file, unknown keys are rejected
func LoadFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &f, nil
}

type refs map[string]string

func (r refs) resolve(kind, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	id, ok := r[ref]
	if !ok {
		return "", fmt.Errorf("%s inconnu: %q", kind, ref)
	}
	return id, nil
}

// ApplyFixtures creates every entity through the services / Crée les entités via les services
func ApplyFixtures(ctx context.Context, c *app.Container, f *Fixtures) (*SeedReport, error) {
	report := &SeedReport{}
	users, services, equipements := refs{}, refs{}, refs{}
	names := map[string]string{}

	for _, uf := range f.Users {
		u, err := c.UserSvc.Create(ctx, &domain.User{
			Nom:             uf.Nom,
			Prenom:          uf.Prenom,
			Email:           uf.Email,
			Role:            domain.UserRole(uf.Role),
			NumeroTelephone: uf.Telephone,
		}, uf.MotDePasse)
		if err != nil {
			return report, fmt.Errorf("user %q: %w", uf.Email, err)
		}
		users[uf.Ref] = u.ID
		names[u.ID] = u.Prenom + " " + u.Nom
		report.Users++
	}

	for _, sf := range f.Services {
		s, err := c.ServiceMunicipalSvc.Create(ctx, &domain.ServiceMunicipal{Nom: sf.Nom, Description: sf.Description})
		if err != nil {
			return report, fmt.Errorf("service %q: %w", sf.Nom, err)
		}
		services[sf.Ref] = s.ID
		report.Services++
	}

	for _, ef := range f.Equipements {
		e := &domain.Equipement{Type: ef.Type, Adresse: ef.Adresse, Etat: domain.Etat(ef.Etat)}
		if len(ef.Localisation) == 2 {
			e.Localisation = domain.NewGeoPoint(ef.Localisation[0], ef.Localisation[1])
		}
		saved, err := c.EquipementSvc.Create(ctx, e)
		if err != nil {
			return report, fmt.Errorf("equipement %q: %w", ef.Ref, err)
		}
		equipements[ef.Ref] = saved.ID
		report.Equipements++
	}

	for _, rf := range f.Ressources {
		if _, err := c.RessourceSvc.Create(ctx, &domain.RessourceMaterielle{
			Nom:                rf.Nom,
			QuantiteDisponible: rf.QuantiteDisponible,
			UniteMesure:        rf.UniteMesure,
			SeuilAlerte:        rf.SeuilAlerte,
		}); err != nil {
			return report, fmt.Errorf("ressource %q: %w", rf.Nom, err)
		}
		report.Ressources++
	}

	for _, inf := range f.Interventions {
		warnings, err := seedIntervention(ctx, c, inf, users, services, equipements, names)
		report.Warnings += warnings
		if err != nil {
			return report, fmt.Errorf("intervention %q: %w", inf.Titre, err)
		}
		report.Interventions++
	}

	return report, nil
}

func seedIntervention(ctx context.Context, c *app.Container, inf InterventionFixture, users, services, equipements refs, names map[string]string) (int, error) {
	serviceID, err := services.resolve("service", inf.Service)
	if err != nil {
		return 0, err
	}
	equipementID, err := equipements.resolve("equipement", inf.Equipement)
	if err != nil {
		return 0, err
	}
	technicienID, err := users.resolve("technicien", inf.Technicien)
	if err != nil {
		return 0, err
	}

	target := domain.StatutEnAttente
	if inf.Statut != "" {
		if target, err = domain.ParseStatut(inf.Statut); err != nil {
			return 0, err
		}
	}

	res, err := c.InterventionSvc.Create(ctx, &domain.Intervention{
		Titre:              inf.Titre,
		Type:               inf.Type,
		Description:        inf.Description,
		Urgence:            domain.Urgence(inf.Urgence),
		EquipementID:       equipementID,
		ServiceMunicipalID: serviceID,
	})
	if err != nil {
		return 0, err
	}
	warnings := len(res.Warnings)
	id := res.Intervention.ID

	if technicienID != "" {
		if res, err = c.InterventionSvc.AssignTechnician(ctx, id, technicienID, names[technicienID]); err != nil {
			return warnings, err
		}
		warnings += len(res.Warnings)
	}

	if target == domain.StatutEnAttente {
		return warnings, nil
	}
	if res, err = c.InterventionSvc.ChangeStatus(ctx, id, string(domain.StatutEnCours), domain.SystemAuthor); err != nil {
		return warnings, err
	}
	warnings += len(res.Warnings)

	if target == domain.StatutTerminee {
		if res, err = c.InterventionSvc.Complete(ctx, id, inf.Notes); err != nil {
			return warnings, err
		}
		warnings += len(res.Warnings)
	}
	return warnings, nil
}

// NewSeedCommand loads a fixtures file / Charge un fichier de données initiales
func NewSeedCommand(root *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load YAML fixtures through the lifecycle services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()

			fixtures, err := LoadFixtures(fh)
			if err != nil {
				return err
			}

			container, closeAll, err := root.openContainer(cmd)
			if err != nil {
				return err
			}
			defer closeAll()

			report, err := ApplyFixtures(cmd.Context(), container, fixtures)
			if err != nil {
				return err
			}

			return root.formatter(cmd).Success(report, func(w io.Writer) error {
				printf(w, "Utilisateurs: %d\n", report.Users)
				printf(w, "Services: %d\n", report.Services)
				printf(w, "Équipements: %d\n", report.Equipements)
				printf(w, "Ressources: %d\n", report.Ressources)
				printf(w, "Interventions: %d\n", report.Interventions)
				if report.Warnings > 0 {
					printf(w, "Avertissements de propagation: %d\n", report.Warnings)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "fixtures file")
	return cmd
}
