package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndLogin(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserService(repository.NewUserRepository(db))

	created, err := users.CreateUser(ctx, CreateUserRequest{
		Username: "ana.finance",
		Password: "s3cret-pass",
		Role:     model.RoleFinance,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleFinance, created.Role)

	tokens, user, err := users.Login(ctx, LoginRequest{Username: "ana.finance", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, created.ID, user.ID)

	_, _, err = users.Login(ctx, LoginRequest{Username: "ana.finance", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = users.Login(ctx, LoginRequest{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RejectsUnknownRoleAndDuplicates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUserService(repository.NewUserRepository(db))

	_, err := users.CreateUser(ctx, CreateUserRequest{
		Username: "x",
		Password: "longenough",
		Role:     "superuser",
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = users.CreateUser(ctx, CreateUserRequest{
		Username: "dup",
		Password: "longenough",
		Role:     model.RoleViewer,
	})
	require.NoError(t, err)

	_, err = users.CreateUser(ctx, CreateUserRequest{
		Username: "dup",
		Password: "longenough",
		Role:     model.RoleViewer,
	})
	require.ErrorAs(t, err, &validationErr)
}
