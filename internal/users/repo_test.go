package users

import (
	"context"
	"testing"
	"time"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/internal/repo"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db/models"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/enums"
	pkgerrors "github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(repo.NewTestDB(t))

	created, err := r.Create(ctx, CreateUserDTO{
		Name:         "  Jane Doe ",
		Email:        " Jane@Example.com ",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Equal(t, "Jane Doe", created.Name)
	assert.Equal(t, enums.UserRoleCustomer, created.Role)
	assert.False(t, created.IsVerified)

	byEmail, err := r.FindByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	require.NoError(t, r.MarkVerified(ctx, created.ID))
	byID, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, byID.IsVerified)
}

func TestRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(repo.NewTestDB(t))

	_, err := r.Create(ctx, CreateUserDTO{Name: "A", Email: "a@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	_, err = r.Create(ctx, CreateUserDTO{Name: "B", Email: "A@example.com", PasswordHash: "y"})
	require.Error(t, err)
}

func TestRepositoryUpdatePendingSignupSkipsVerified(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(repo.NewTestDB(t))

	user, err := r.Create(ctx, CreateUserDTO{Name: "Old", Email: "p@example.com", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, r.UpdatePendingSignup(ctx, user.ID, CreateUserDTO{Name: "New", PasswordHash: "new"}))
	reloaded, err := r.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", reloaded.Name)

	require.NoError(t, r.MarkVerified(ctx, user.ID))
	require.NoError(t, r.UpdatePendingSignup(ctx, user.ID, CreateUserDTO{Name: "Ignored", PasswordHash: "x"}))
	reloaded, err = r.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", reloaded.Name)
}

func TestRepositoryDeleteUnverifiedBefore(t *testing.T) {
	ctx := context.Background()
	db := repo.NewTestDB(t)
	r := NewRepository(db)

	old := time.Now().UTC().Add(-10 * 24 * time.Hour)
	stale := &models.User{Name: "stale", Email: "stale@example.com", PasswordHash: "x", CreatedAt: old}
	verified := &models.User{Name: "kept", Email: "kept@example.com", PasswordHash: "x", IsVerified: true, CreatedAt: old}
	fresh := &models.User{Name: "fresh", Email: "fresh@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Create(verified).Error)
	require.NoError(t, db.Create(fresh).Error)

	deleted, err := r.DeleteUnverifiedBefore(ctx, time.Now().UTC().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = r.FindByID(ctx, stale.ID)
	require.Error(t, err)
	_, err = r.FindByID(ctx, verified.ID)
	require.NoError(t, err)
	_, err = r.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
}

func TestServiceMe(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(repo.NewTestDB(t))
	svc, err := NewService(r)
	require.NoError(t, err)

	user, err := r.Create(ctx, CreateUserDTO{Name: "Me", Email: "me@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	dto, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", dto.Email)

	_, err = svc.Me(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
