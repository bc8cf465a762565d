package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"CryptoDash/pkg/config"
)

const issuer = "cryptodash"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

// HMACService issues HS256 session tokens.
type HMACService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewHMACService(cfg *config.Config) *HMACService {
	return &HMACService{
		secret:    []byte(cfg.Auth.JWTSecret),
		expiresIn: cfg.Auth.TokenTTL,
		now:       time.Now,
	}
}

func (s *HMACService) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	if len(s.secret) == 0 || s.expiresIn <= 0 {
		return "", time.Time{}, ErrTokenInvalid
	}
	now := s.now().UTC()
	exp := now.Add(s.expiresIn)
	c := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *HMACService) Parse(tokenString string) (uuid.UUID, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || c.UserID == uuid.Nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return c.UserID, nil
}
