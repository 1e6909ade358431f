package service

import (
	"context"
	"testing"

	"bizsite/internal/models"
	"bizsite/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, nil)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUserInput{Email: "staff@example.com", Username: ptr("staff"), Password: goodPassword, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.True(t, u.LocalAuth)

	_, err = svc.Create(ctx, CreateUserInput{Email: "x@example.com", Password: goodPassword, Role: "owner"})
	assertCode(t, err, models.CodeValidation)
	_, err = svc.Create(ctx, CreateUserInput{Email: "y@example.com", Username: ptr("STAFF"), Password: goodPassword})
	assertCode(t, err, models.CodeConflict)

	testutil.CreateUser(t, env.db, "member", models.RoleUser)

	admins, err := svc.List(ctx, ListUsersInput{Role: "admin"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins.Total)

	search, err := svc.List(ctx, ListUsersInput{Search: "MEMB"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)
	assert.Equal(t, "member", search.Items[0].UsernameOrEmpty())

	active, err := svc.List(ctx, ListUsersInput{Active: "false"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, active.Total)

	_, err = svc.List(ctx, ListUsersInput{Provider: "facebook"})
	assertCode(t, err, models.CodeValidation)
}

func TestUserService_SelfProtection(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, nil)
	ctx := context.Background()
	admin := testutil.CreateUser(t, env.db, "root", models.RoleAdmin)
	other := testutil.CreateUser(t, env.db, "other", models.RoleUser)

	_, err := svc.Update(ctx, admin.ID, admin.ID, UpdateUserInput{Role: ptr("user")})
	assertCode(t, err, models.CodeForbidden)
	_, err = svc.Update(ctx, admin.ID, admin.ID, UpdateUserInput{IsActive: ptr(false)})
	assertCode(t, err, models.CodeForbidden)
	assertCode(t, svc.Delete(ctx, admin.ID, admin.ID), models.CodeForbidden)

	promoted, err := svc.Update(ctx, admin.ID, other.ID, UpdateUserInput{Role: ptr("admin"), FullName: ptr("Other Person")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
	assert.Equal(t, "Other Person", promoted.FullName)

	require.NoError(t, svc.Delete(ctx, admin.ID, other.ID))
	_, err = svc.Get(ctx, other.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestUserService_PasswordResetEnablesLogin(t *testing.T) {
	env := newTestEnv(t)
	authSvc := env.authService()
	svc := NewUserService(env.users, nil)
	ctx := context.Background()

	u, _, err := authSvc.FindOrCreateUser(ctx, models.ProviderGitHub, githubProfile())
	require.NoError(t, err)

	_, err = authSvc.Login(ctx, LoginInput{Identifier: u.Email, Password: goodPassword})
	assertCode(t, err, models.CodeUnauthorized)

	_, err = svc.Update(ctx, 0, u.ID, UpdateUserInput{Password: ptr("weak")})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.Update(ctx, 0, u.ID, UpdateUserInput{Password: ptr(goodPassword)})
	require.NoError(t, err)

	res, err := authSvc.Login(ctx, LoginInput{Identifier: u.Email, Password: goodPassword})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
}
