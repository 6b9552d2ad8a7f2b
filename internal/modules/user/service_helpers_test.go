package user

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	hashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword("correct-horse", hash))
	assert.False(t, CheckPassword("wrong-horse", hash))
	assert.False(t, CheckPassword("correct-horse", ""))

	_, err = HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, errPasswordTooLong)
}

func TestUnusablePasswordHash(t *testing.T) {
	a, err := unusablePasswordHash()
	require.NoError(t, err)
	b, err := unusablePasswordHash()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.False(t, CheckPassword("", a))
}
