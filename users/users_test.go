package users_test

import (
	"testing"

	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/users"
	fakeuserrepo "github.com/jrsteele09/go-auth-client/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Password123"))

	for password, want := range map[string]string{
		"Short1":      "at least 8 characters",
		"password123": "uppercase",
		"PASSWORD123": "lowercase",
		"Passwordxyz": "number",
	} {
		err := users.ValidatePasswordStrength(password)
		require.Error(t, err, password)
		require.Contains(t, err.Error(), want)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("Password123")
	require.NoError(t, err)

	u := &users.User{PasswordHash: hash}
	require.True(t, u.CheckPassword("Password123"))
	require.False(t, u.CheckPassword("password123"))
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Email: "Jane@Example.com", Username: "jane"}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)

	got, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	got, err = repo.GetByUsername("jane")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	require.NoError(t, repo.SetBlocked("jane@example.com", true))
	got, _ = repo.GetByID(u.ID)
	require.True(t, got.Blocked)

	require.NoError(t, repo.Delete("jane@example.com"))
	_, err = repo.GetByEmail("jane@example.com")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
	_, err = repo.GetByUsername("jane")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestProfileOmitsSecrets(t *testing.T) {
	u := &users.User{ID: "1", Email: "a@b.com", PasswordHash: "hash", FirstName: "A"}
	require.Equal(t, users.Profile{ID: "1", Email: "a@b.com", FirstName: "A"}, u.Profile())
}

func TestFakeUserRepoInsert(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Email: "Jane@Example.com", Username: "jane"}
	require.NoError(t, repo.Insert(u))
	require.NotEmpty(t, u.ID)

	err := repo.Insert(&users.User{Email: "jane@example.com", Username: "other"})
	require.ErrorIs(t, err, errors.ErrUserExists)

	err = repo.Insert(&users.User{Email: "other@example.com", Username: "jane"})
	require.ErrorIs(t, err, errors.ErrUsernameTaken)

	_, err = repo.GetByEmail("other@example.com")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
	got, err := repo.GetByUsername("jane")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}
