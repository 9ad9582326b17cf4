package model

import (
	"time"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleOperator   = "operator"
)

var AdminRoles = []string{RoleSuperAdmin, RoleAdmin, RoleOperator}

func ValidRole(role string) bool {
	for _, r := range AdminRoles {
		if r == role {
			return true
		}
	}
	return false
}

// AdminUser is a dashboard operator. The ID is the identity provider's
// subject for the account.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
