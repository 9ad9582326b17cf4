package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"idportal/internal/auth"
	"idportal/internal/model"
	"idportal/internal/repository"
	"idportal/internal/validation"

	"github.com/google/uuid"
)

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminUserResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"`
}

type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt string            `json:"expires_at"`
	User      AdminUserResponse `json:"user"`

	Expires time.Time `json:"-"`
}

type SessionResponse struct {
	State     string             `json:"state"`
	User      *AdminUserResponse `json:"user,omitempty"`
	ExpiresAt string             `json:"expires_at,omitempty"`
}

// --- Interface ---

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// ResolveSession never reports an authenticated session together with
	// an error. A store failure leaves the session unknown.
	ResolveSession(ctx context.Context, token string) (*auth.Session, error)
	CreateAdminUser(ctx context.Context, in validation.AdminUserInput, actor Actor) (*AdminUserResponse, error)
	ListAdminUsers(ctx context.Context) ([]AdminUserResponse, error)
}

type authService struct {
	provider  auth.IdentityProvider
	tokens    *auth.TokenIssuer
	users     repository.AdminUserRepository
	audit     repository.AuditRepository
	txManager repository.TransactionManager
	validator *validation.Validator
	logger    *slog.Logger
}

func NewAuthService(
	provider auth.IdentityProvider,
	tokens *auth.TokenIssuer,
	users repository.AdminUserRepository,
	audit repository.AuditRepository,
	txManager repository.TransactionManager,
	validator *validation.Validator,
	logger *slog.Logger,
) AuthService {
	return &authService{
		provider:  provider,
		tokens:    tokens,
		users:     users,
		audit:     audit,
		txManager: txManager,
		validator: validator,
		logger:    logger.With("component", "auth_service"),
	}
}

// --- Implementation ---

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	identity, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredential):
			return nil, ErrInvalidLogin
		case errors.Is(err, auth.ErrInvalidEmail):
			return nil, ErrInvalidEmailFormat
		default:
			s.logger.WarnContext(ctx, "admin sign-in failed", "error", err)
			return nil, ErrLoginFailed
		}
	}

	user, err := s.users.GetByID(ctx, identity.UID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotAdmin
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load admin user", "uid", identity.UID, "error", err)
		return nil, ErrLoginFailed
	}
	if !model.ValidRole(user.Role) {
		return nil, ErrNotAdmin
	}

	token, expires, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue session token", "uid", user.ID, "error", err)
		return nil, ErrLoginFailed
	}

	s.logger.InfoContext(ctx, "admin signed in", "uid", user.ID, "role", user.Role)
	return &LoginResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
		User:      toAdminUserResponse(user),
		Expires:   expires,
	}, nil
}

func (s *authService) ResolveSession(ctx context.Context, token string) (*auth.Session, error) {
	unauthenticated := &auth.Session{State: auth.SessionUnauthenticated}

	token = strings.TrimSpace(token)
	if token == "" {
		return unauthenticated, nil
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return unauthenticated, nil
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return unauthenticated, nil
	}
	if err != nil {
		return &auth.Session{State: auth.SessionUnknown}, fmt.Errorf("resolve session: %w", err)
	}
	if !model.ValidRole(user.Role) {
		return unauthenticated, nil
	}

	session := &auth.Session{State: auth.SessionAuthenticated, User: user}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (s *authService) CreateAdminUser(ctx context.Context, in validation.AdminUserInput, actor Actor) (*AdminUserResponse, error) {
	if err := s.validator.AdminUser(in); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.AdminUser{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		Permissions:  []string{},
		PasswordHash: hashed,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return ErrDuplicateAdmin
			}
			return err
		}

		details, _ := json.Marshal(map[string]interface{}{
			"email": user.Email,
			"role":  user.Role,
		})
		if err := s.audit.Log(txCtx, &model.AuditLog{
			UserID:     actor.UserID,
			UserEmail:  actor.Email,
			Action:     model.ActionCreateAdminUser,
			EntityID:   user.ID,
			EntityName: user.Name,
			Details:    string(details),
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toAdminUserResponse(user)
	return &resp, nil
}

func (s *authService) ListAdminUsers(ctx context.Context) ([]AdminUserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]AdminUserResponse, 0, len(users))
	for i := range users {
		res = append(res, toAdminUserResponse(&users[i]))
	}
	return res, nil
}

// ToSessionResponse renders a resolved session for the session endpoint.
func ToSessionResponse(session *auth.Session) SessionResponse {
	resp := SessionResponse{State: session.State.String()}
	if session.Authenticated() {
		user := toAdminUserResponse(session.User)
		resp.User = &user
		if !session.ExpiresAt.IsZero() {
			resp.ExpiresAt = session.ExpiresAt.UTC().Format(time.RFC3339)
		}
	}
	return resp
}

func toAdminUserResponse(user *model.AdminUser) AdminUserResponse {
	perms := user.Permissions
	if perms == nil {
		perms = []string{}
	}
	return AdminUserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		Permissions: perms,
		CreatedAt:   user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
