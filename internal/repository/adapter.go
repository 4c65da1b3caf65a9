package repository

import (
	"database/sql"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/mysql"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/postgres"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/sqlite"
)

// storeConstructors builds the SQL document store of each engine / Constructeur du store SQL par moteur
var storeConstructors = map[db.DatabaseType]func(*sql.DB) ports.DocumentStore{
	db.SQLite:     sqlite.NewDocumentStore,
	db.MySQL:      mysql.NewDocumentStore,
	db.PostgreSQL: postgres.NewDocumentStore,
	db.PgX:        postgres.NewDocumentStore,
}

// Adapter adapts database connection to repositories / Adapte la connexion BD vers les repositories
type Adapter struct {
	store ports.DocumentStore
}

// NewAdapter creates repository adapter / Crée l'adapteur de repositories
func NewAdapter(database *sql.DB, driver string) *Adapter {
	newStore, ok := storeConstructors[db.ParseDatabaseType(driver)]
	if !ok {
		newStore = sqlite.NewDocumentStore
	}
	return &Adapter{store: newStore(database)}
}

// NewAdapterWithStore wraps an existing store / Enveloppe un store existant
func NewAdapterWithStore(store ports.DocumentStore) *Adapter {
	return &Adapter{store: store}
}

// DocumentStore returns the underlying store / Retourne le store sous-jacent
func (a *Adapter) DocumentStore() ports.DocumentStore {
	return a.store
}

func (a *Adapter) Interventions() ports.Repository[domain.Intervention] {
	return NewCollection[domain.Intervention](a.store, domain.CollectionInterventions, "intervention")
}

func (a *Adapter) Equipements() ports.Repository[domain.Equipement] {
	return NewCollection[domain.Equipement](a.store, domain.CollectionEquipements, "equipement")
}

func (a *Adapter) Ressources() ports.Repository[domain.RessourceMaterielle] {
	return NewCollection[domain.RessourceMaterielle](a.store, domain.CollectionRessources, "ressource")
}

func (a *Adapter) ServicesMunicipaux() ports.Repository[domain.ServiceMunicipal] {
	return NewCollection[domain.ServiceMunicipal](a.store, domain.CollectionServicesMunicipal, "service municipal")
}

func (a *Adapter) Signalements() ports.Repository[domain.Signalement] {
	return NewCollection[domain.Signalement](a.store, domain.CollectionSignalements, "signalement")
}

func (a *Adapter) Notifications() ports.Repository[domain.Notification] {
	return NewCollection[domain.Notification](a.store, domain.CollectionNotifications, "notification")
}

// UserRepository returns user repository / Retourne le repository utilisateur
func (a *Adapter) UserRepository() ports.UserRepository {
	return NewUserRepository(a.store)
}
