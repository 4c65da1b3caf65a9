package postgres

import (
	"database/sql"
	"errors"

	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// translateErr understands both lib/pq and pgx errors / Comprend les erreurs lib/pq et pgx
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNoRecord
	}

	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	if (errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation) ||
		(errors.As(err, &pgErr) && pgErr.Code == uniqueViolation) {
		return db.ErrDup
	}
	return err
}
