package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*documentStore, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return &documentStore{db: database}, mock
}

func TestDocumentStore_FindByUsesJSONBOperator(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM documents WHERE collection = $1 AND data->>$2 = $3 ORDER BY seq")).
		WithArgs("interventions", "statut", "EN_COURS").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"id":"a"}`)).
			AddRow([]byte(`{"id":"b"}`)))

	docs, err := store.FindBy(context.Background(), "interventions", "statut", "EN_COURS")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_GetMissingMapsToNoRecord(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM documents WHERE collection = $1 AND id = $2")).
		WithArgs("users", "u1").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "users", "u1")
	assert.ErrorIs(t, err, db.ErrNoRecord)
}

func TestDocumentStore_SaveUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("equipements", "e1", `{"id":"e1"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), "equipements", "e1", []byte(`{"id":"e1"}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, db.ErrNoRecord},
		{"lib/pq unique", &pq.Error{Code: "23505"}, db.ErrDup},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, db.ErrDup},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateErr(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.True(t, errors.Is(got, tt.want), "got %v", got)
		})
	}
}
