package password

import (
	"golang.org/x/crypto/bcrypt"

	"CryptoDash/pkg/config"
)

// Bcrypt hashes passwords synchronously; callers persist only after Hash returns.
type Bcrypt struct {
	cost int
}

func NewBcrypt(cfg *config.Config) *Bcrypt {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b *Bcrypt) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
