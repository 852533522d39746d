package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/tienda-backend/pkg/db"
	"github.com/angelmondragon/tienda-backend/pkg/db/dbtest"
	"github.com/angelmondragon/tienda-backend/pkg/enums"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Username:     " ana ",
		Email:        "Ana@Example.com",
		Age:          30,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", created.Username)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, enums.UserRoleUser, created.Role)

	byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.Create(ctx, CreateUserDTO{Username: "x", Email: "ana@example.com", PasswordHash: "h"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryUpdates(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	user, err := repo.Create(ctx, CreateUserDTO{Username: "u", Email: "u@example.com", PasswordHash: "old"})
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastConnection(ctx, user.ID, at))
	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new"))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastConnection)
	assert.True(t, stored.LastConnection.Equal(at))
	assert.Equal(t, "new", stored.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, uuid.New(), "x"), gorm.ErrRecordNotFound)
}

func TestFromModelNil(t *testing.T) {
	assert.Nil(t, FromModel(nil))
}
