package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/config"
	"github.com/ahlemhorchani/smart-interventions/internal/events"
	"github.com/ahlemhorchani/smart-interventions/internal/metrics"
	"github.com/ahlemhorchani/smart-interventions/internal/observability"
	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/ahlemhorchani/smart-interventions/internal/repository"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
	"github.com/ahlemhorchani/smart-interventions/internal/service"
	"github.com/ahlemhorchani/smart-interventions/internal/storage"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file" // Required for file-based migrations
	_ "github.com/jackc/pgx/v5/stdlib"                   // PostgreSQL driver (pgx)
	_ "github.com/lib/pq"                                // PostgreSQL driver
	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite" // SQLite driver
)

// Container holds application dependencies / Contient les dépendances de l'application
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Store    ports.DocumentStore
	UserRepo ports.UserRepository
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Files    ports.FileStorage
	Events   ports.EventPublisher

	Propagator          *service.Propagator
	InterventionSvc     *service.InterventionService
	EquipementSvc       *service.EquipementService
	RessourceSvc        *service.RessourceService
	ServiceMunicipalSvc *service.ServiceMunicipalService
	NotificationSvc     *service.NotificationService
	SignalementSvc      *service.SignalementService
	StatistiquesSvc     *service.StatistiquesService
	UserSvc             *service.UserService
	AuthSvc             *service.AuthService

	tracingShutdown observability.Shutdown
	ctxCancel       context.CancelFunc
}

// Option customizes container construction / Personnalise la construction du conteneur
type Option func(*options)

type options struct {
	logger   *slog.Logger
	registry *prometheus.Registry
	store    ports.DocumentStore
	files    ports.FileStorage
	events   ports.EventPublisher
}

// WithLogger sets the application logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegistry registers metrics on a private registry instead of the global one
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithDocumentStore skips the SQL database and uses the given store / Utilise le store fourni sans base SQL
func WithDocumentStore(s ports.DocumentStore) Option {
	return func(o *options) { o.store = s }
}

// WithFileStorage overrides the configured storage driver
func WithFileStorage(f ports.FileStorage) Option {
	return func(o *options) { o.files = f }
}

// WithEventPublisher overrides the configured event bus
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(o *options) { o.events = p }
}

// NewContainer initializes application container / Initialise le conteneur de l'application
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg, Logger: o.logger}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	// Metrics first, no dependencies
	if o.registry != nil {
		c.Metrics = metrics.NewMetrics(o.registry)
		c.Gatherer = o.registry
	} else {
		c.Metrics = metrics.NewMetrics(nil)
		c.Gatherer = prometheus.DefaultGatherer
	}

	shutdown, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Environment, c.Logger, nil)
	if err != nil {
		return nil, fmt.Errorf("tracing init: %w", err)
	}
	c.tracingShutdown = shutdown

	if o.store != nil {
		c.Store = o.store
	} else {
		if err := c.initDatabase(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("database init: %w", err)
		}
		if err := c.runMigrations(); err != nil {
			c.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	adapter := c.initRepositories()

	if err := c.initInfrastructure(ctx, o); err != nil {
		c.Close()
		return nil, err
	}

	c.initServices(adapter)
	c.startBackgroundTasks()

	if c.DB != nil {
		c.updateDatabaseMetrics()
	}
	return c, nil
}

// Migrate opens the configured database, applies pending migrations and closes it / Applique les migrations en attente
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger}
	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer c.DB.Close()
	return c.runMigrations()
}

// initDatabase opens the configured engine / Ouvre la base configurée
func (c *Container) initDatabase(ctx context.Context) error {
	dbType := db.ParseDatabaseType(c.Config.Database.Type)
	conn, err := db.Open(ctx, db.DatabaseConfig{
		Type:         dbType,
		DSN:          c.Config.Database.DSN,
		MaxOpenConns: c.Config.Database.MaxOpenConns,
		MaxIdleConns: c.Config.Database.MaxIdleConns,
	}, c.Logger)
	if err != nil {
		return err
	}
	c.DB = conn
	return nil
}

// runMigrations applies database migrations / Applique les migrations de base de données
func (c *Container) runMigrations() error {
	dbType := db.ParseDatabaseType(c.Config.Database.Type)
	driver, name, err := db.MigrationDriver(dbType, c.DB)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+c.Config.Database.MigrationsPath, name, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	c.Logger.Info("applying database migrations", "type", dbType, "path", c.Config.Database.MigrationsPath)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	c.Logger.Info("database migrations applied")
	return nil
}

// initRepositories binds the document store to typed collections / Lie le store aux collections typées
func (c *Container) initRepositories() *repository.Adapter {
	var adapter *repository.Adapter
	if c.Store != nil {
		adapter = repository.NewAdapterWithStore(c.Store)
	} else {
		adapter = repository.NewAdapter(c.DB, c.Config.Database.Type)
		c.Store = adapter.DocumentStore()
	}
	c.UserRepo = adapter.UserRepository()
	return adapter
}

// initInfrastructure opens file storage and the event bus / Ouvre le stockage et le bus d'événements
func (c *Container) initInfrastructure(ctx context.Context, o options) error {
	if o.files != nil {
		c.Files = o.files
	} else {
		files, err := storage.New(ctx, c.Config.Storage)
		if err != nil {
			return fmt.Errorf("storage init: %w", err)
		}
		c.Files = files
	}

	publisher := o.events
	if publisher == nil {
		p, err := events.New(ctx, c.Config.Events, c.Logger)
		if err != nil {
			return fmt.Errorf("events init: %w", err)
		}
		publisher = p
	}
	c.Events = events.WithMetrics(publisher, c.Metrics)

	c.Logger.Info("infrastructure ready",
		"storage", c.Config.Storage.Driver,
		"events", c.Config.Events.Driver,
	)
	return nil
}

// initServices initializes application services / Initialise les services applicatifs
func (c *Container) initServices(adapter *repository.Adapter) {
	c.EquipementSvc = service.NewEquipementService(adapter.Equipements())
	c.ServiceMunicipalSvc = service.NewServiceMunicipalService(adapter.ServicesMunicipaux())
	c.NotificationSvc = service.NewNotificationService(adapter.Notifications())

	c.Propagator = service.NewPropagator(c.EquipementSvc, c.ServiceMunicipalSvc, c.NotificationSvc, c.UserRepo, c.Events, c.Metrics)
	c.InterventionSvc = service.NewInterventionService(adapter.Interventions(), c.Propagator, c.Metrics)
	c.RessourceSvc = service.NewRessourceService(adapter.Ressources(), c.Events, c.Metrics)
	c.SignalementSvc = service.NewSignalementService(adapter.Signalements(), c.Files, c.InterventionSvc)
	c.StatistiquesSvc = service.NewStatistiquesService(adapter.Interventions(), c.UserRepo, adapter.ServicesMunicipaux())

	c.UserSvc = service.NewUserService(c.UserRepo, c.Config)
	c.AuthSvc = service.NewAuthService(c.UserSvc, c.UserRepo, c.Config, c.Metrics)
}

func (c *Container) startBackgroundTasks() {
	ctx, cancel := context.WithCancel(context.Background())
	c.ctxCancel = cancel

	if c.Config.Backup.Enabled && c.DB != nil {
		c.startBackupRoutine(ctx)
	}
}

// updateDatabaseMetrics updates database metrics / Met à jour les métriques de la BD
func (c *Container) updateDatabaseMetrics() {
	stats := c.DB.Stats()
	c.Metrics.UpdateDatabaseConnections(stats.OpenConnections)
}

// Ping checks the database, the event bus and the file storage / Vérifie les dépendances externes
func (c *Container) Ping(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		c.updateDatabaseMetrics()
	}
	if p, ok := c.Events.(ports.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("events: %w", err)
		}
	}
	if p, ok := c.Files.(ports.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	return nil
}

// Close performs graceful shutdown / Effectue un arrêt gracieux
func (c *Container) Close() error {
	if c.ctxCancel != nil {
		c.ctxCancel()
	}

	var errs []error
	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}
	if c.tracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.tracingShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing: %w", err))
		}
		cancel()
	}
	if c.DB != nil {
		c.Logger.Info("closing database")
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}
