package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", "cris-bel-water", time.Hour)

	token, err := m.GenerateToken("7", "cashier", RoleStaff)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "cashier", claims.Username)
	assert.Equal(t, RoleStaff, claims.Role)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewManager("other", "cris-bel-water", time.Hour).GenerateToken("1", "admin", RoleAdmin)
	require.NoError(t, err)

	_, err = NewManager("secret", "cris-bel-water", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	token, err := NewManager("secret", "someone-else", time.Hour).GenerateToken("1", "admin", RoleAdmin)
	require.NoError(t, err)

	_, err = NewManager("secret", "cris-bel-water", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("secret", "cris-bel-water", -time.Minute)
	m.ttl = -time.Minute
	token, err := m.GenerateToken("1", "admin", RoleAdmin)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissing(t *testing.T) {
	_, err := NewManager("secret", "", time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
