package dto

import (
	"time"

	"github.com/ahlemhorchani/smart-interventions/internal/domain"
)

// LoginRequest is DTO for login requests / Est le DTO pour les demandes de connexion
type LoginRequest struct {
	Email      string `json:"email"`      // User email / Email de l'utilisateur
	MotDePasse string `json:"motDePasse"` // User password / Mot de passe de l'utilisateur
}

// UserRequest is DTO for registration and admin user creation / DTO d'inscription et de création d'utilisateur
type UserRequest struct {
	Nom             string  `json:"nom"`
	Prenom          string  `json:"prenom"`
	Email           string  `json:"email"`
	MotDePasse      string  `json:"motDePasse"`
	Role            string  `json:"role,omitempty"`
	NumeroTelephone string  `json:"numeroTelephone,omitempty"`
	Position        string  `json:"position,omitempty"`
	Latitude        float64 `json:"latitude,omitempty"`
	Longitude       float64 `json:"longitude,omitempty"`
}

// ToDomain converts the request without the password / Convertit la requête sans le mot de passe
func (r *UserRequest) ToDomain() *domain.User {
	return &domain.User{
		Nom:             r.Nom,
		Prenom:          r.Prenom,
		Email:           r.Email,
		Role:            domain.UserRole(r.Role),
		NumeroTelephone: r.NumeroTelephone,
		Position:        r.Position,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
}

// UserUpdateRequest is DTO for profile updates / DTO de mise à jour du profil
type UserUpdateRequest struct {
	Nom             string `json:"nom"`
	Prenom          string `json:"prenom"`
	Email           string `json:"email"`
	NumeroTelephone string `json:"numeroTelephone"`
	Position        string `json:"position"`
	Disponibilite   bool   `json:"disponibilite"`
}

func (r *UserUpdateRequest) ToDomain() *domain.User {
	return &domain.User{
		Nom:             r.Nom,
		Prenom:          r.Prenom,
		Email:           r.Email,
		NumeroTelephone: r.NumeroTelephone,
		Position:        r.Position,
		Disponibilite:   r.Disponibilite,
	}
}

// UserRoleRequest is DTO for role changes
type UserRoleRequest struct {
	Role string `json:"role"`
}

// UserResponse is the public view of a user, never carries the password / Vue publique d'un utilisateur, sans mot de passe
type UserResponse struct {
	ID               string    `json:"id"`
	Nom              string    `json:"nom"`
	Prenom           string    `json:"prenom"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Disponibilite    bool      `json:"disponibilite"`
	Position         string    `json:"position,omitempty"`
	Latitude         float64   `json:"latitude,omitempty"`
	Longitude        float64   `json:"longitude,omitempty"`
	NumeroTelephone  string    `json:"numeroTelephone,omitempty"`
	DateCreation     time.Time `json:"dateCreation"`
	DateModification time.Time `json:"dateModification"`
}

// UserToDTO converts domain.User to UserResponse / Convertit domain.User en UserResponse
func UserToDTO(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID,
		Nom:              user.Nom,
		Prenom:           user.Prenom,
		Email:            user.Email,
		Role:             string(user.Role),
		Disponibilite:    user.Disponibilite,
		Position:         user.Position,
		Latitude:         user.Latitude,
		Longitude:        user.Longitude,
		NumeroTelephone:  user.NumeroTelephone,
		DateCreation:     user.DateCreation,
		DateModification: user.DateModification,
	}
}

// UsersToDTO converts a list / Convertit une liste
func UsersToDTO(users []*domain.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserToDTO(u))
	}
	return out
}

// LoginResponse is DTO for login response / Est le DTO pour la réponse de connexion
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}
