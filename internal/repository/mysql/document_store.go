package mysql

import (
	"context"
	"database/sql"

	"github.com/ahlemhorchani/smart-interventions/internal/ports"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
)

var _ ports.DocumentStore = (*documentStore)(nil)

// documentStore implements DocumentStore on a JSON column / Implémente DocumentStore sur une colonne JSON
type documentStore struct {
	db ports.SQLConn
}

// NewDocumentStore creates document store / Crée le store de documents
func NewDocumentStore(db *sql.DB) ports.DocumentStore {
	return &documentStore{db: db}
}

func (s *documentStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	query := "SELECT data FROM documents WHERE collection = ? AND id = ?"
	var data []byte
	if err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&data); err != nil {
		return nil, translateErr(err)
	}
	return data, nil
}

func (s *documentStore) GetAll(ctx context.Context, collection string) ([][]byte, error) {
	query := "SELECT data FROM documents WHERE collection = ? ORDER BY seq"
	return s.list(ctx, query, collection)
}

func (s *documentStore) FindBy(ctx context.Context, collection, field, value string) ([][]byte, error) {
	if err := db.ValidateField(field); err != nil {
		return nil, err
	}
	query := "SELECT data FROM documents WHERE collection = ? AND JSON_UNQUOTE(JSON_EXTRACT(data, ?)) = ? ORDER BY seq"
	return s.list(ctx, query, collection, "$."+field, value)
}

func (s *documentStore) Save(ctx context.Context, collection, id string, doc []byte) error {
	query := `
	INSERT INTO documents (collection, id, data)
	VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = CURRENT_TIMESTAMP
	`
	_, err := s.db.ExecContext(ctx, query, collection, id, string(doc))
	return translateErr(err)
}

func (s *documentStore) DeleteByID(ctx context.Context, collection, id string) error {
	query := "DELETE FROM documents WHERE collection = ? AND id = ?"
	_, err := s.db.ExecContext(ctx, query, collection, id)
	return translateErr(err)
}

func (s *documentStore) ExistsByID(ctx context.Context, collection, id string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM documents WHERE collection = ? AND id = ?)"
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&exists); err != nil {
		return false, translateErr(err)
	}
	return exists, nil
}

func (s *documentStore) list(ctx context.Context, query string, args ...any) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, translateErr(err)
		}
		docs = append(docs, data)
	}
	return docs, translateErr(rows.Err())
}
