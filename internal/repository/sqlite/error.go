package sqlite

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Contention errors, callers may retry / Erreurs de contention, l'appelant peut réessayer
var (
	ErrBusy   = errors.New("database is busy")
	ErrLocked = errors.New("database is locked")
)

// translateErr maps driver failures onto the store sentinels / Traduit les erreurs du driver
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNoRecord
	}

	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return err
	}
	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return db.ErrDup
	case sqlite3.SQLITE_BUSY:
		slog.Warn("sqlite busy", "err", liteErr)
		return ErrBusy
	case sqlite3.SQLITE_LOCKED:
		slog.Warn("sqlite locked", "err", liteErr)
		return ErrLocked
	}
	slog.Error("sqlite error", "code", liteErr.Code(), "err", liteErr)
	return err
}
