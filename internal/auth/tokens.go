package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const defaultTTL = 7 * 24 * time.Hour

// Tokens issues and verifies HS256 bearer tokens whose subject is the user id.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: defaultTTL, now: time.Now}
}

// ValidateToken verifies the JWT and returns the authenticated user id.
func (t *Tokens) ValidateToken(ctx context.Context, token string) (int, error) {
	if len(t.secret) == 0 {
		return 0, ErrInvalidToken
	}
	parsed, err := gojwt.Parse(token, func(token *gojwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, gojwt.WithTimeFunc(t.now), gojwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(gojwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrInvalidToken
	}
	return int(sub), nil
}

// GenerateToken creates a signed token for userID.
func (t *Tokens) GenerateToken(userID int) (string, error) {
	now := t.now()
	claims := gojwt.MapClaims{
		"sub": userID,
		"exp": now.Add(t.ttl).Unix(),
		"iat": now.Unix(),
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(t.secret)
}
