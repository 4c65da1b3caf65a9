package ports

import (
	"context"
	"database/sql"
)

// DocumentStore persists raw JSON documents grouped by collection / Persiste des documents JSON par collection
// Get returns db.ErrNoRecord when the id is absent.
type DocumentStore interface {
	// Get retrieves one document / Récupère un document
	Get(ctx context.Context, collection, id string) ([]byte, error)

	// GetAll retrieves every document in creation order / Récupère tous les documents par ordre de création
	GetAll(ctx context.Context, collection string) ([][]byte, error)

	// FindBy matches a top-level string field / Filtre sur un champ texte de premier niveau
	FindBy(ctx context.Context, collection, field, value string) ([][]byte, error)

	// Save upserts by id / Insère ou remplace par id
	Save(ctx context.Context, collection, id string, doc []byte) error

	// DeleteByID removes a document, absent ids are ignored / Supprime un document
	DeleteByID(ctx context.Context, collection, id string) error

	// ExistsByID checks presence / Vérifie la présence
	ExistsByID(ctx context.Context, collection, id string) (bool, error)
}

// Repository is the typed view of one collection / Vue typée d'une collection
type Repository[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	GetAll(ctx context.Context) ([]*T, error)
	FindBy(ctx context.Context, field, value string) ([]*T, error)
	Save(ctx context.Context, v *T) (*T, error)
	DeleteByID(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// SQLConn is satisfied by *sql.DB and *sql.Tx, the SQL stores run on either
type SQLConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
