package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"idportal/internal/datenorm"
	"idportal/internal/docstore"
	"idportal/internal/model"
)

var ErrDuplicateEmail = errors.New("email already registered")

type AdminUserRepository interface {
	// Create stores user under user.ID; the email must be unused.
	Create(ctx context.Context, user *model.AdminUser) error
	GetByID(ctx context.Context, id string) (*model.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	List(ctx context.Context) ([]model.AdminUser, error)
}

type adminUserRepository struct {
	store docstore.Store
}

func NewAdminUserRepository(store docstore.Store) AdminUserRepository {
	return &adminUserRepository{store: store}
}

func (r *adminUserRepository) Create(ctx context.Context, user *model.AdminUser) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	return r.store.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := r.store.Count(txCtx, CollectionAdminUsers, docstore.Where("email", user.Email))
		if err != nil {
			return fmt.Errorf("check admin email: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateEmail
		}

		err = r.store.Set(txCtx, CollectionAdminUsers, user.ID, docstore.Document{
			"email":        user.Email,
			"name":         user.Name,
			"role":         user.Role,
			"permissions":  toAnyList(user.Permissions),
			"passwordHash": user.PasswordHash,
			"createdAt":    timestamp(user.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}
		return nil
	})
}

func (r *adminUserRepository) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	snap, err := r.store.Get(ctx, CollectionAdminUsers, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	return adminUserFromSnapshot(*snap), nil
}

func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	snaps, err := r.store.Find(ctx, CollectionAdminUsers, docstore.Query{
		Filters: []docstore.Filter{docstore.Where("email", strings.ToLower(strings.TrimSpace(email)))},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("find admin user: %w", err)
	}
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	return adminUserFromSnapshot(snaps[0]), nil
}

func (r *adminUserRepository) List(ctx context.Context) ([]model.AdminUser, error) {
	snaps, err := r.store.Find(ctx, CollectionAdminUsers, docstore.Query{})
	if err != nil {
		return nil, fmt.Errorf("list admin users: %w", err)
	}
	users := make([]model.AdminUser, 0, len(snaps))
	for _, snap := range snaps {
		users = append(users, *adminUserFromSnapshot(snap))
	}
	return users, nil
}

func adminUserFromSnapshot(snap docstore.Snapshot) *model.AdminUser {
	user := &model.AdminUser{
		ID:           snap.ID,
		Email:        str(snap.Data, "email"),
		Name:         str(snap.Data, "name"),
		Role:         str(snap.Data, "role"),
		Permissions:  strList(snap.Data, "permissions"),
		PasswordHash: str(snap.Data, "passwordHash"),
		CreatedAt:    snap.CreatedAt,
	}
	if t, ok := datenorm.Parse(snap.Data["createdAt"], time.UTC); ok {
		user.CreatedAt = t
	}
	return user
}
