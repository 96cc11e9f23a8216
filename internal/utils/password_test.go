package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_Deterministic(t *testing.T) {
	t.Parallel()

	salt := []byte("0123456789abcdef")
	h1 := HashPassword("correct horse", salt)
	h2 := HashPassword("correct horse", salt)
	require.Equal(t, h1, h2)
	require.NotEmpty(t, h1)
}

func TestHashPassword_DiffersByPassword(t *testing.T) {
	t.Parallel()

	salt := []byte("0123456789abcdef")
	require.NotEqual(t, HashPassword("one", salt), HashPassword("two", salt))
}

func TestHashPassword_DiffersBySalt(t *testing.T) {
	t.Parallel()

	require.NotEqual(t,
		HashPassword("same", []byte("0123456789abcdef")),
		HashPassword("same", []byte("fedcba9876543210")))
}

func TestNewSalt(t *testing.T) {
	t.Parallel()

	s1, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, s1, 16)

	s2, err := NewSalt()
	require.NoError(t, err)
	require.NotEqual(t, s1, s2)
}
