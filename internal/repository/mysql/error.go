package mysql

import (
	"database/sql"
	"errors"

	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
	"github.com/go-sql-driver/mysql"
)

const erDupEntry = 1062

func translateErr(err error) error {
	var mysqlErr *mysql.MySQLError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return db.ErrNoRecord
	case errors.As(err, &mysqlErr) && mysqlErr.Number == erDupEntry:
		return db.ErrDup
	}
	return err
}
