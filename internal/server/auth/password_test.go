package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHashers(t *testing.T) map[string]PasswordHasher {
	t.Helper()
	b, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return map[string]PasswordHasher{
		"bcrypt":   b,
		"argon2id": NewArgon2idHasher(),
	}
}

func TestHashers_RoundTrip(t *testing.T) {
	passwords := []string{
		"pw1",
		"",
		"correct horse battery staple",
		"ünïcødé pässwörd ✓",
		strings.Repeat("x", 72),
		strings.Repeat("y", 500),
	}

	for name, h := range newTestHashers(t) {
		t.Run(name, func(t *testing.T) {
			for _, p := range passwords {
				hash, err := h.Hash(p)
				require.NoError(t, err)
				require.NotEmpty(t, hash)
				require.NotEqual(t, p, hash)

				ok, err := h.Verify(p, hash)
				require.NoError(t, err)
				assert.True(t, ok, "password of length %d must verify", len(p))

				ok, err = h.Verify(p+"!", hash)
				require.NoError(t, err)
				assert.False(t, ok, "different password of length %d must not verify", len(p))
			}
		})
	}
}

func TestHashers_SaltedHashesDiffer(t *testing.T) {
	for name, h := range newTestHashers(t) {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("same")
			require.NoError(t, err)
			b, err := h.Hash("same")
			require.NoError(t, err)
			assert.NotEqual(t, a, b)
		})
	}
}

func TestBcrypt_LongPasswordsDifferBeyond72Bytes(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	prefix := strings.Repeat("a", 80)
	hash, err := h.Hash(prefix + "1")
	require.NoError(t, err)

	ok, err := h.Verify(prefix+"2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcrypt_UsesConfiguredCost(t *testing.T) {
	h, err := NewBcryptHasher(5)
	require.NoError(t, err)

	hash, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestNewBcryptHasher_RejectsBadCost(t *testing.T) {
	_, err := NewBcryptHasher(2)
	assert.Error(t, err)
	_, err = NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}

func TestVerify_MalformedHash(t *testing.T) {
	for name, h := range newTestHashers(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("pw", "not-a-hash")
			assert.False(t, ok)
			assert.Error(t, err)
		})
	}
}

func TestArgon2id_RejectsForeignFormat(t *testing.T) {
	h := NewArgon2idHasher()

	ok, err := h.Verify("pw", "$2a$04$abcdefghijklmnopqrstuv")
	assert.False(t, ok)
	assert.Error(t, err)

	ok, err = h.Verify("pw", "$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "unsupported version")
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("bcrypt", bcrypt.MinCost)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewPasswordHasher("", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, h.(*BcryptHasher).cost)

	h, err = NewPasswordHasher("ARGON2ID", 0)
	require.NoError(t, err)
	assert.IsType(t, &Argon2idHasher{}, h)

	_, err = NewPasswordHasher("md5", 0)
	assert.Error(t, err)
}
