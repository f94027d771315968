package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTokenRoundTrip(t *testing.T) {
	m := NewServiceTokenManager("secret", time.Minute, "payments")

	tok, err := m.Token()
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "payments", claims.Service)
}

func TestServiceTokenRejectsOtherSecretAndExpired(t *testing.T) {
	m := NewServiceTokenManager("secret", time.Minute, "payments")
	other := NewServiceTokenManager("other", time.Minute, "payments")

	tok, err := other.Token()
	require.NoError(t, err)
	_, err = m.Parse(tok)
	assert.Error(t, err)

	expired := &ServiceTokenManager{Secret: []byte("secret"), TTL: -time.Minute, Issuer: "payments"}
	tok, err = expired.Token()
	require.NoError(t, err)
	_, err = m.Parse(tok)
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)
	hash, err := h.Hash("12345678")
	require.NoError(t, err)
	assert.True(t, h.Compare(hash, "12345678"))
	assert.False(t, h.Compare(hash, "87654321"))

	assert.Equal(t, 4, NewPasswordHasher(1).Cost)
}
