package cryptox_test

import (
	"testing"

	"github.com/openhire/jobboard/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotContains(t, hash, "correct horse")

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := cryptox.VerifyPassword("incorrect horse", hash)
		require.ErrorIs(t, err, cryptox.ErrMismatch)
	})

	t.Run("garbage hash", func(t *testing.T) {
		err := cryptox.VerifyPassword("anything", "not-a-bcrypt-hash")
		require.Error(t, err)
		require.NotErrorIs(t, err, cryptox.ErrMismatch)
	})
}

func TestHashesAreSalted(t *testing.T) {
	a, err := cryptox.HashPassword("same password")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("same password")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}
