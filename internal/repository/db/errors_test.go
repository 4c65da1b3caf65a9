package db

import (
	"errors"
	"testing"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		field string
		ok    bool
	}{
		{"statut", true},
		{"technicienId", true},
		{"contact_email2", true},
		{"", false},
		{"2statut", false},
		{"statut') OR 1=1 --", false},
		{"a.b", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			err := ValidateField(tt.field)
			if tt.ok && err != nil {
				t.Errorf("ValidateField(%q) = %v", tt.field, err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidField) {
				t.Errorf("ValidateField(%q) = %v, want ErrInvalidField", tt.field, err)
			}
		})
	}
}

func TestParseDatabaseTypeCases(t *testing.T) {
	cases := map[string]DatabaseType{
		"":           SQLite,
		"SQLite3":    SQLite,
		"postgresql": PostgreSQL,
		"pgx":        PgX,
		"mysql":      MySQL,
	}
	for in, want := range cases {
		if got := ParseDatabaseType(in); got != want {
			t.Errorf("ParseDatabaseType(%q) = %q, want %q", in, got, want)
		}
	}
	if ParseDatabaseType("oracle").IsValid() {
		t.Error("oracle should not be valid")
	}
}
