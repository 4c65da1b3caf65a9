package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_FindByUsesJSONPath(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()
	store := &documentStore{db: database}

	mock.ExpectQuery(regexp.QuoteMeta("JSON_UNQUOTE(JSON_EXTRACT(data, ?)) = ?")).
		WithArgs("signalements", "$.statut", "RECU").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"id":"s1"}`)))

	docs, err := store.FindBy(context.Background(), "signalements", "statut", "RECU")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.JSONEq(t, `{"id":"s1"}`, string(docs[0]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_ExistsByID(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()
	store := &documentStore{db: database}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(")).
		WithArgs("ressources", "r1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.ExistsByID(context.Background(), "ressources", "r1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHandleError_Duplicate(t *testing.T) {
	assert.ErrorIs(t, translateErr(&mysql.MySQLError{Number: 1062}), db.ErrDup)
	assert.Nil(t, translateErr(nil))
}
