package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken("u-1", "Alice Costa", "alice@example.com", "Customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Alice Costa", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Customer", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).GenerateToken("u-1", "A", "a@b.c", "Customer")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken("u-1", "A", "a@b.c", "Customer")
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := NewJWTManager("test-secret", time.Hour).ValidateToken("not-a-token")
	assert.Error(t, err)
}
