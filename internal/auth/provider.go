// Package auth adapts the identity provider used for admin sign-in and
// issues the session tokens carried by the admin dashboard.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"idportal/internal/repository"

	"github.com/asaskevich/govalidator"
	"golang.org/x/crypto/bcrypt"
)

// Provider error codes. Callers map them to user-facing messages.
var (
	ErrInvalidCredential = errors.New("auth/invalid-credential")
	ErrInvalidEmail      = errors.New("auth/invalid-email")
	ErrUserDisabled      = errors.New("auth/user-disabled")
)

// Identity is the account the provider authenticated.
type Identity struct {
	UID   string
	Email string
}

// IdentityProvider verifies sign-in credentials.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
}

// PasswordProvider checks bcrypt password hashes stored on admin users.
type PasswordProvider struct {
	users repository.AdminUserRepository
}

func NewPasswordProvider(users repository.AdminUserRepository) *PasswordProvider {
	return &PasswordProvider{users: users}
}

func (p *PasswordProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !govalidator.IsEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := p.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredential
	}
	if err != nil {
		return nil, fmt.Errorf("look up admin user: %w", err)
	}
	if user.PasswordHash == "" {
		return nil, ErrUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return &Identity{UID: user.ID, Email: user.Email}, nil
}

// HashPassword returns the bcrypt hash stored for a new admin user.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
