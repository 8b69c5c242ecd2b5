package auth

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePlatformAdmin     Role = "platform_admin"
	RoleAccountManager    Role = "account_manager"
	RoleMunicipalManager  Role = "municipal_manager"
	RoleMunicipalEmployee Role = "municipal_employee"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleAccountManager, RoleMunicipalManager, RoleMunicipalEmployee:
		return true
	}
	return false
}

// Principal is the stored account row. The password hash never leaves
// this package.
type Principal struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CommuneID    *uuid.UUID `json:"commune_id,omitempty"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SessionUser is the frozen principal snapshot that travels inside the
// session token. It carries no credential material.
type SessionUser struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	CommuneID   *uuid.UUID `json:"communeId,omitempty"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	LastLoginAt int64      `json:"lastLoginAt,omitempty"`
}

// SessionUserOf projects a principal into its session snapshot.
func SessionUserOf(p *Principal, loginAt time.Time) SessionUser {
	return SessionUser{
		ID:          p.ID,
		Email:       p.Email,
		Role:        p.Role,
		CommuneID:   p.CommuneID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		LastLoginAt: loginAt.UnixMilli(),
	}
}

// LoginEvent is an append-only audit record written on every successful
// authentication.
type LoginEvent struct {
	ID          uuid.UUID `json:"id"`
	PrincipalID uuid.UUID `json:"principal_id"`
	IP          string    `json:"ip"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}
