package db

import (
	"errors"
	"fmt"
)

// Common database errors
var (
	ErrNoRecord     = errors.New("no matching record found")
	ErrDup          = errors.New("record already exists")
	ErrInvalidField = errors.New("invalid document field")
)

// ValidateField guards the JSON path built from a field name / Protège le chemin JSON construit depuis un nom de champ
func ValidateField(field string) error {
	if field == "" || len(field) > 64 {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	for i, c := range field {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case (c >= '0' && c <= '9') || c == '_':
			if i == 0 {
				return fmt.Errorf("%w: %q", ErrInvalidField, field)
			}
		default:
			return fmt.Errorf("%w: %q", ErrInvalidField, field)
		}
	}
	return nil
}
