package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaltedSHA256(t *testing.T) {
	hasher := NewSaltedSHA256("salt")

	t.Run("should be deterministic", func(t *testing.T) {
		first, _ := hasher.Hash("secret1")
		second, _ := hasher.Hash("secret1")

		assert.Equal(t, first, second)
		assert.Len(t, first, 64)
	})

	t.Run("should match sha256 of password plus salt", func(t *testing.T) {
		digest, _ := hasher.Hash("password")

		// sha256("passwordsalt")
		assert.Equal(t, "7a37b85c8918eac19a9089c0fa5a2ab4dce3f90528dcdeec108b23ddf3607b99", digest)
	})

	t.Run("should verify only the original password", func(t *testing.T) {
		digest, _ := hasher.Hash("secret1")

		assert.True(t, hasher.Verify("secret1", digest))
		assert.False(t, hasher.Verify("secret2", digest))
		assert.False(t, hasher.Verify("", digest))
	})

	t.Run("should depend on the salt", func(t *testing.T) {
		a, _ := NewSaltedSHA256("one").Hash("secret1")
		b, _ := NewSaltedSHA256("two").Hash("secret1")

		assert.NotEqual(t, a, b)
	})
}

func TestBcrypt(t *testing.T) {
	hasher := NewBcrypt(4)

	digest, err := hasher.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", digest)
	assert.True(t, hasher.Verify("secret1", digest))
	assert.False(t, hasher.Verify("secret2", digest))
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("", "salt")
	require.NoError(t, err)
	assert.IsType(t, &SaltedSHA256{}, h)

	h, err = NewPasswordHasher(HasherBcrypt, "salt")
	require.NoError(t, err)
	assert.IsType(t, &Bcrypt{}, h)

	_, err = NewPasswordHasher("md5", "salt")
	assert.Error(t, err)
}

func TestParseUserID(t *testing.T) {
	cases := map[string]bool{
		"1":    true,
		"42":   true,
		"0":    false,
		"-3":   false,
		"abc":  false,
		"":     false,
		"12ab": false,
		"1.5":  false,
	}

	for raw, ok := range cases {
		_, got := ParseUserID(raw)
		assert.Equal(t, ok, got, raw)
	}
}
