package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ahlemhorchani/smart-interventions/internal/app"
	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/dto"
	"github.com/ahlemhorchani/smart-interventions/internal/service"
)

const maxJSONBody = 1 << 20

// Handler gives HTTP handlers access to the application container / Donne accès au conteneur applicatif
type Handler struct {
	container *app.Container
}

// NewHandler creates handler set / Crée l'ensemble des handlers
func NewHandler(container *app.Container) *Handler {
	return &Handler{container: container}
}

// APIError is the JSON error body / Corps JSON des erreurs
type APIError struct {
	Error string `json:"error"`
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
}

// ErrorResponse writes a plain error without a domain kind / Écrit une erreur simple
func ErrorResponse(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, APIError{Error: message, Type: http.StatusText(code)})
}

// writeError maps domain kinds onto HTTP statuses / Traduit les types d'erreur en statuts HTTP
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		ErrorResponse(w, err.Error(), http.StatusUnauthorized)
		return
	}

	e, ok := domain.AsError(err)
	if !ok || e.Kind == domain.KindInternal {
		slog.ErrorContext(r.Context(), "request failed",
			"request_id", GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		writeJSON(w, http.StatusInternalServerError, APIError{
			Error: "internal error",
			Type:  domain.KindInternal.String(),
		})
		return
	}

	status := http.StatusBadRequest
	if e.Kind == domain.KindNotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, APIError{Error: e.Message, Type: e.Kind.String(), Field: e.Field})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("response encoding failed", "err", err)
	}
}

// jsonResponse writes 200 with a JSON body
func jsonResponse(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// decodeJSON reads a size-limited JSON body, false means the response is already written
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ErrorResponse(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		writeJSON(w, http.StatusBadRequest, APIError{
			Error: "invalid JSON body: " + err.Error(),
			Type:  domain.KindInvalidArgument.String(),
		})
		return false
	}
	return true
}

// lifecycleResponse writes a lifecycle mutation outcome / Écrit le résultat d'une mutation
func lifecycleResponse(w http.ResponseWriter, status int, res *domain.LifecycleResult) {
	writeJSON(w, status, dto.LifecycleBody(res))
}
