package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"CryptoDash/pkg/config"
)

func TestHashAndCompare(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.BcryptCost = bcrypt.MinCost
	b := NewBcrypt(cfg)

	h, err := b.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", h)
	assert.NoError(t, b.Compare(h, "correct horse"))
	assert.Error(t, b.Compare(h, "battery staple"))
}

func TestInvalidCostFallsBackToDefault(t *testing.T) {
	b := NewBcrypt(&config.Config{})
	assert.Equal(t, bcrypt.DefaultCost, b.cost)
}
