package usecase

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = time.Hour

// Claims is the identity carried by an access token. Roles are deliberately
// absent: authorization always re-reads the user record.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func (s *TokenService) Issue(email, name string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrBadRequest("email required")
	}
	if s.Secret == "" {
		return "", errors.New("token secret not configured")
	}
	now := s.now()
	claims := Claims{
		Email: email,
		Name:  strings.TrimSpace(name),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl())),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.Secret))
}

func (s *TokenService) Verify(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnauthorized("token required")
	}
	var c Claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return []byte(s.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized("invalid token")
	}
	if strings.TrimSpace(c.Email) == "" {
		return nil, ErrUnauthorized("email claim missing")
	}
	return &c, nil
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return TokenTTL
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
