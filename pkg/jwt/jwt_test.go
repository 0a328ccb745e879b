package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate("s3cret", "user-1", "aprobador", "salidas-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "aprobador", role)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Generate("s3cret", "user-1", "admin", "salidas-api", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	tok, err := Generate("s3cret", "user-1", "admin", "salidas-api", -1)
	require.NoError(t, err)

	_, _, err = Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := Generate("", "user-1", "admin", "x", 5)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, _, err = Parse("", "token")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
