package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	tok, err := NewAccessToken(secret, 42, RoleCustomer, 15)
	assert.NoError(t, err)
	assert.NotEmpty(t, tok.Token)

	userID, role, err := ParseAccessToken(secret, tok.Token)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
	assert.Equal(t, RoleCustomer, role)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret-a", 7, RoleOperator, 15)
	assert.NoError(t, err)

	_, _, err = ParseAccessToken("secret-b", tok.Token)
	assert.Error(t, err)
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("op-password", 10)
	assert.NoError(t, err)

	assert.True(t, CheckPassword(hash, "op-password"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
