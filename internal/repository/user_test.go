package repository

import (
	"context"
	"errors"
	"testing"

	"techhive/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "jane", Email: "jane@example.com", Password: "hashed", Role: models.RoleGeneral, Badge: models.BadgeBronze}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", got.Name)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "a", Email: "dup@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Name: "b", Email: "dup@example.com", Password: "y"})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUserRepository_GetByEmail_MissingIsNil(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 12345)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.True(t, IsUniqueViolation(errors.New("ERROR: duplicate key value violates unique constraint \"idx_users_email\" (SQLSTATE 23505)")))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
}
