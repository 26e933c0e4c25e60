package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"salon-booking/internal/core/config"
)

// ErrInvalidToken wraps every Parse failure; the jwt cause stays reachable
// through errors.Is (jwt.ErrTokenExpired etc).
var ErrInvalidToken = errors.New("invalid token")

// 时钟漂移容忍
const leeway = time.Minute

// Claims carries the user id in sub plus the contact fields and role.
type Claims struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Subject is what a token is issued for.
type Subject struct {
	ID    string
	Email string
	Phone string
	Role  string
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func FromConfig(c config.JWT) *JWTer {
	return &JWTer{
		Secret: []byte(c.Secret),
		Issuer: c.Issuer,
		TTL:    time.Duration(c.AccessTokenTTLMin) * time.Minute,
	}
}

func (j *JWTer) Issue(s Subject) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: s.Email,
		Phone: s.Phone,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	})
	return tok.SignedString(j.Secret)
}

// Parse accepts only HS256 tokens from our issuer that name a subject.
func (j *JWTer) Parse(raw string) (*Claims, error) {
	c := &Claims{}
	_, err := jwt.ParseWithClaims(raw, c, func(*jwt.Token) (any, error) {
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return c, nil
}
