package service

import (
	"net/mail"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("smart-interventions/service")

// telephonePattern matches the 8-digit local phone format
var telephonePattern = regexp.MustCompile(`^[0-9]{8}$`)

// minPasswordLength is the shortest accepted password
const minPasswordLength = 6

// isValidPassword checks length bounds.
// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
func isValidPassword(password string) bool {
	return len(password) >= minPasswordLength && len([]byte(password)) <= 72
}

// isValidEmail validates an email address format.
// It checks:
//   - Valid RFC 5322 format using net/mail.ParseAddress
//   - Maximum length of 254 characters (RFC 5321)
//   - Non-empty string
//
// Returns true if the email is valid.
func isValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}

	email = strings.TrimSpace(email)

	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// normalizeEmail lower-cases and trims / Met en minuscules et supprime les espaces
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isBlank reports an empty or whitespace-only string
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
