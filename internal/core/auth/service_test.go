package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/appshelf/appshelf/config"
	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
	"github.com/appshelf/appshelf/internal/storage/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := collection.NewStore(UsersDefinition(), memory.New(), validation.NewValidator())
	svc := NewService(store, &config.JWTConfig{Secret: "test-secret", Expiration: "1h"})
	svc.cost = bcrypt.MinCost
	return svc
}

func register(t *testing.T, s *Service, email string) *AuthResponse {
	t.Helper()
	resp, err := s.Register(context.Background(), &RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	s := newTestService(t)

	resp := register(t, s, "Jane@Example.com")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Equal(t, RoleUser, resp.User.Role)
	assert.Equal(t, StatusActive, resp.User.Status)
	assert.Contains(t, resp.User.Avatar, "pravatar.cc")

	stored, err := s.GetUserByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestService(t)
	register(t, s, "jane@example.com")

	_, err := s.Register(context.Background(), &RegisterRequest{
		Email:    "JANE@example.com",
		Password: "password123",
		Name:     "Other",
	})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, 1, s.Store().Len())
}

func TestLogin(t *testing.T) {
	s := newTestService(t)
	register(t, s, "jane@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid credentials", "jane@example.com", "password123", nil},
		{"email is case-insensitive", "JANE@example.com", "password123", nil},
		{"wrong password", "jane@example.com", "nope", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := s.Login(context.Background(), &LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Token)
		})
	}
}

func TestLoginWithoutPasswordHash(t *testing.T) {
	s := newTestService(t)
	_, err := s.Store().Create(context.Background(), map[string]interface{}{
		"email": "fixture@example.com",
		"name":  "Fixture",
	})
	require.NoError(t, err)

	_, err = s.Login(context.Background(), &LoginRequest{Email: "fixture@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginSuspendedUser(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "jane@example.com")

	_, err := s.UpdateUser(context.Background(), resp.User.ID, &UpdateUserRequest{Status: StatusSuspended})
	require.NoError(t, err)

	_, err = s.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInactive)

	_, err = s.Refresh(context.Background(), resp.User.ID)
	assert.ErrorIs(t, err, ErrInactive)
}

func TestValidateToken(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "jane@example.com")

	claims, err := s.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, RoleUser, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	other := NewService(s.Store(), &config.JWTConfig{Secret: "different"})
	_, err = other.ValidateToken(resp.Token)
	assert.Error(t, err)

	_, err = s.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "jane@example.com")

	token, err := s.Refresh(context.Background(), resp.User.ID)
	require.NoError(t, err)
	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = s.Refresh(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForgotPassword(t *testing.T) {
	s := newTestService(t)
	register(t, s, "jane@example.com")

	msg, err := s.ForgotPassword(context.Background(), "Jane@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	_, err = s.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "jane@example.com")

	user, err := s.UpdateUser(context.Background(), resp.User.ID, &UpdateUserRequest{Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, StatusActive, user.Status)

	_, err = s.UpdateUser(context.Background(), resp.User.ID, &UpdateUserRequest{Status: "banned"})
	assert.True(t, validation.IsValidationError(err))

	_, err = s.UpdateUser(context.Background(), "missing", &UpdateUserRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPromoteAndDemote(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	first := register(t, s, "first@example.com")
	second := register(t, s, "second@example.com")

	user, err := s.Promote(ctx, first.User.ID)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = s.Promote(ctx, first.User.ID)
	assert.ErrorIs(t, err, ErrAlreadyAdmin)

	// first is the only admin
	_, err = s.Demote(ctx, first.User.ID)
	assert.ErrorIs(t, err, ErrLastAdmin)

	_, err = s.Demote(ctx, second.User.ID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = s.Promote(ctx, second.User.ID)
	require.NoError(t, err)

	user, err = s.Demote(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, user.Role)

	_, err = s.Promote(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	admin := register(t, s, "admin@example.com")
	user := register(t, s, "user@example.com")
	_, err := s.Promote(ctx, admin.User.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteUser(ctx, admin.User.ID, admin.User.ID), ErrForbidden)
	assert.ErrorIs(t, s.DeleteUser(ctx, user.User.ID, admin.User.ID), ErrLastAdmin)

	require.NoError(t, s.DeleteUser(ctx, admin.User.ID, user.User.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, admin.User.ID, user.User.ID), ErrNotFound)
	assert.Equal(t, 1, s.Store().Len())
}

func TestListUsersHidesPasswordHash(t *testing.T) {
	s := newTestService(t)
	register(t, s, "a@example.com")
	register(t, s, "b@example.com")

	page := s.ListUsers(collection.Query{Search: "b@"})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b@example.com", page.Items[0].Email)
	assert.Equal(t, 1, page.Total)
	assert.False(t, page.HasMore)
}

func TestEnsureAdmin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user, created, err := s.EnsureAdmin(ctx, "root@example.com", "password123", "Root")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, user.IsAdmin())

	user, created, err = s.EnsureAdmin(ctx, "root@example.com", "ignored", "Root")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, user.IsAdmin())

	plain := register(t, s, "plain@example.com")
	user, created, err = s.EnsureAdmin(ctx, "plain@example.com", "ignored", "Plain")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, plain.User.ID, user.ID)
	assert.True(t, user.IsAdmin())
}
