package repository

import (
	"github.com/ahlemhorchani/smart-interventions/internal/repository/db"
	"github.com/ahlemhorchani/smart-interventions/internal/repository/sqlite"
)

// Store errors every engine maps onto / Erreurs communes à tous les moteurs
var (
	ErrNoRecord     = db.ErrNoRecord
	ErrDup          = db.ErrDup
	ErrInvalidField = db.ErrInvalidField
	ErrBusy         = sqlite.ErrBusy
	ErrLocked       = sqlite.ErrLocked
)
