// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/recipebox/internal/core"
)

type fakeRepository struct {
	users        map[string]*User
	emailTaken   bool
	versionBumps int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[string]*User{}}
}

func (f *fakeRepository) Create(_ context.Context, user *User) error {
	if f.emailTaken {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepository) GetByEmail(
	_ context.Context,
	email string,
) (*User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepository) Update(_ context.Context, user *User) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepository) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepository) IncrementTokenVersion(
	_ context.Context,
	id string,
) error {
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	user.TokenVersion++
	f.versionBumps++
	return nil
}

func (f *fakeRepository) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	out := make([]User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, len(out), nil
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"john@EXAMPLE.COM", "john@example.com"},
		{"John@Example.Com", "John@example.com"},
		{"  user@domain.org  ", "user@domain.org"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.input))
		})
	}
}

func TestService_Register(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), CreateUserRequest{
		Email:    "Alice@EXAMPLE.com",
		Password: "correct horse battery",
		Name:     "Alice",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.NotEmpty(t, user.ID)

	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
	valid, _, err := core.VerifyPasswordTimingSafe(
		"correct horse battery",
		&user.PasswordHash,
	)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	repo.emailTaken = true
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), CreateUserRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
		Name:     "Alice",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_UpdateMe(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), CreateUserRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
		Name:     "Alice",
	})
	require.NoError(t, err)
	oldHash := created.PasswordHash

	newEmail := "Alice@NEWDOMAIN.com"
	newName := "Alice B"
	newPassword := "even longer passphrase"

	updated, err := svc.UpdateMe(context.Background(), created.ID, UpdateMeRequest{
		Email:    &newEmail,
		Name:     &newName,
		Password: &newPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice@newdomain.com", updated.Email)
	assert.Equal(t, "Alice B", updated.Name)
	assert.NotEqual(t, oldHash, updated.PasswordHash)

	valid, _, err := core.VerifyPasswordTimingSafe(
		newPassword,
		&updated.PasswordHash,
	)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestService_SetFlags_DeactivationBumpsTokenVersion(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), CreateUserRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
		Name:     "Alice",
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.SetFlags(context.Background(), created.ID, UpdateUserFlagsRequest{
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.False(t, updated.IsActive)
	assert.Equal(t, 1, repo.versionBumps)

	// Flipping is_staff alone leaves the token version alone.
	staff := true
	_, err = svc.SetFlags(context.Background(), created.ID, UpdateUserFlagsRequest{
		IsStaff: &staff,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.versionBumps)
}
