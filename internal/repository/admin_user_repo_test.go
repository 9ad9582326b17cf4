package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idportal/internal/model"
)

func TestAdminUserRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewAdminUserRepository(f.store)

	user := &model.AdminUser{
		ID:           "uid-1",
		Email:        " Ops@IDCard.example.org ",
		Name:         "Ops",
		Role:         model.RoleAdmin,
		Permissions:  []string{"employees:write"},
		PasswordHash: "$2a$10$hash",
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "ops@idcard.example.org", user.Email)

	byID, err := repo.GetByID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, byID.Role)
	assert.Equal(t, "$2a$10$hash", byID.PasswordHash)
	assert.Equal(t, []string{"employees:write"}, byID.Permissions)

	byEmail, err := repo.GetByEmail(ctx, "OPS@idcard.example.org")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", byEmail.ID)

	err = repo.Create(ctx, &model.AdminUser{ID: "uid-2", Email: "ops@idcard.example.org", Role: model.RoleOperator})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = repo.GetByEmail(ctx, "nobody@example.org")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, "uid-404")
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuditRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewAuditRepository(f.store)

	for i, action := range []string{model.ActionApproveApplication, model.ActionRejectApplication, model.ActionDeleteEmployee} {
		require.NoError(t, repo.Log(ctx, &model.AuditLog{
			ID:       fmt.Sprintf("log-%d", i),
			UserID:   "uid-1",
			Action:   action,
			EntityID: "ECR-1",
			Details:  `{"status":"x"}`,
		}))
	}

	logs, total, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 2)
	assert.Equal(t, model.ActionDeleteEmployee, logs[0].Action)
	assert.Equal(t, "log-2", logs[0].ID)
	assert.False(t, logs[0].CreatedAt.IsZero())

	page2, _, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, model.ActionApproveApplication, page2[0].Action)
}
