package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-phrase")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-phrase", hash)

	assert.True(t, VerifyPassword(hash, "s3cret-phrase"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
