package domain

import (
	"strings"
	"time"
)

// UserRole represents user's role for authorization / Représente le rôle utilisateur pour l'autorisation
type UserRole string

const (
	RoleCitoyen    UserRole = "CITOYEN"    // Default role for citizens / Rôle par défaut des citoyens
	RoleTechnicien UserRole = "TECHNICIEN" // Field technician / Technicien terrain
	RoleAdmin      UserRole = "ADMIN"      // Full admin access / Accès administrateur complet
)

// IsValid checks if role is valid / Vérifie si le rôle est valide
func (r UserRole) IsValid() bool {
	return r == RoleCitoyen || r == RoleTechnicien || r == RoleAdmin
}

// ParseRole parses a role, case-insensitive / Analyse un rôle, insensible à la casse
func ParseRole(token string) (UserRole, error) {
	r := UserRole(strings.ToUpper(strings.TrimSpace(token)))
	if !r.IsValid() {
		return "", InvalidArgument("rôle invalide: %q", token)
	}
	return r, nil
}

// User represents domain user entity / Représente l'entité utilisateur du domaine
type User struct {
	ID               string    `json:"id"`
	Nom              string    `json:"nom"`
	Prenom           string    `json:"prenom"`
	Email            string    `json:"email"`
	MotDePasse       string    `json:"motDePasse,omitempty"` // bcrypt hash, never rendered
	Role             UserRole  `json:"role"`
	Disponibilite    bool      `json:"disponibilite"`
	Position         string    `json:"position,omitempty"`
	Latitude         float64   `json:"latitude,omitempty"`
	Longitude        float64   `json:"longitude,omitempty"`
	NumeroTelephone  string    `json:"numeroTelephone,omitempty"`
	DateCreation     time.Time `json:"dateCreation"`
	DateModification time.Time `json:"dateModification"`
}

func (u *User) DocumentID() string      { return u.ID }
func (u *User) SetDocumentID(id string) { u.ID = id }

// HasRole checks exact role match / Vérifie la correspondance exacte du rôle
func (u *User) HasRole(role UserRole) bool {
	return u.Role == role
}

// IsAdmin checks admin privileges / Vérifie les privilèges admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsTechnicienDisponible reports an available technician / Indique un technicien disponible
func (u *User) IsTechnicienDisponible() bool {
	return u.Role == RoleTechnicien && u.Disponibilite
}

// NomComplet returns the display name / Retourne le nom affiché
func (u *User) NomComplet() string {
	return strings.TrimSpace(u.Prenom + " " + u.Nom)
}

// HasMinimumRole checks role hierarchy (ADMIN > TECHNICIEN > CITOYEN) / Vérifie la hiérarchie des rôles
func HasMinimumRole(userRole, required UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleCitoyen:    1,
		RoleTechnicien: 2,
		RoleAdmin:      3,
	}
	return roleHierarchy[userRole] >= roleHierarchy[required] && roleHierarchy[userRole] > 0
}
