package web

import (
	"net/http"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
	"github.com/ahlemhorchani/smart-interventions/internal/dto"
)

// setAuthCookie mirrors the token in an HttpOnly cookie / Copie le token dans un cookie HttpOnly
func (h *Handler) setAuthCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.container.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// Login handles user authentication / Gère l'authentification de l'utilisateur
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.container.AuthSvc.Login(r.Context(), req.Email, req.MotDePasse)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAuthCookie(w, token.AccessToken, int(h.container.Config.Auth.TokenDuration.Seconds()))
	jsonResponse(w, dto.LoginResponse{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
		User:      dto.UserToDTO(user),
	})
}

// Register creates a citizen account / Crée un compte citoyen
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u := req.ToDomain()
	// Self-registration never grants staff roles
	u.Role = domain.RoleCitoyen

	user, err := h.container.AuthSvc.Register(r.Context(), u, req.MotDePasse)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.UserToDTO(user))
}

// Me returns the authenticated user / Retourne l'utilisateur authentifié
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.container.UserSvc.GetByID(r.Context(), callerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, dto.UserToDTO(user))
}

// Logout clears the access cookie
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setAuthCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}
