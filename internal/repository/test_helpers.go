package repository

import (
	"database/sql"
	"fmt"

	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/sqlite"
)

// sqliteSchema mirrors migrations/sqlite/000001_create_documents.up.sql
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    collection TEXT NOT NULL,
    id         TEXT NOT NULL,
    data       TEXT NOT NULL CHECK (json_valid(data)),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (collection, id)
);`

// NewSQLiteTestStore creates the schema on database and returns a store, for tests / Crée le schéma et retourne un store pour les tests
// database should be an in-memory sqlite handle limited to one connection.
func NewSQLiteTestStore(database *sql.DB) (ports.DocumentStore, error) {
	if _, err := database.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("create test schema: %w", err)
	}
	return sqlite.NewDocumentStore(database), nil
}
