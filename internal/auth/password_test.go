package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_SaltedHashesBothVerify(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("secret1")
	require.NoError(t, err)
	second, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "secret1")

	for _, hash := range []string{first, second} {
		ok, err := h.Verify(hash, "secret1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestPasswordHasher_Mismatch(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	ok, err := h.Verify(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_EmptyPasswordIsHashable(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("")
	require.NoError(t, err)

	ok, err := h.Verify(hash, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(bcrypt.MinCost)

	ok, err := h.Verify("not-a-bcrypt-hash", "secret1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_LongPasswords(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(bcrypt.MinCost)

	long := strings.Repeat("a", 200)
	hash, err := h.Hash(long)
	require.NoError(t, err)

	ok, err := h.Verify(hash, long)
	require.NoError(t, err)
	assert.True(t, ok)

	// Passwords sharing the first 72 bytes must not collide.
	ok, err = h.Verify(hash, strings.Repeat("a", 199)+"b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewPasswordHasher_CostFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}
