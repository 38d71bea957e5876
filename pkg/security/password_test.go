package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, hasher.Compare(hash, "correct-horse-battery"))
	assert.Error(t, hasher.Compare(hash, "wrong-password"))
}

func TestHashRejectsShortPasswords(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestHasherFallsBackToDefaultCost(t *testing.T) {
	// Out-of-range costs must not panic inside bcrypt.
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("a-long-enough-password")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "a-long-enough-password"))
}
