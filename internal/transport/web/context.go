package web

import (
	"context"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/service/auth"
)

// ContextKey avoids collisions with keys from other packages
type ContextKey string

const (
	// ClaimsContextKey holds the validated JWT claims set by Auth
	ClaimsContextKey = ContextKey("claims")
	requestIDKey     = ContextKey("request_id")
)

// ClaimsFrom returns the authenticated caller claims / Retourne les claims de l'appelant authentifié
func ClaimsFrom(ctx context.Context) (*auth.CustomClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.CustomClaims)
	return claims, ok && claims != nil
}

// callerRole returns the caller role, empty when anonymous
func callerRole(ctx context.Context) domain.UserRole {
	if claims, ok := ClaimsFrom(ctx); ok {
		return domain.UserRole(claims.Role)
	}
	return ""
}

// callerID returns the token subject, empty when anonymous
func callerID(ctx context.Context) string {
	if claims, ok := ClaimsFrom(ctx); ok {
		return claims.Subject
	}
	return ""
}

// GetRequestID extracts request ID from context / Extrait l'ID de la requête du contexte
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
