package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Claims are the role/department claims carried by the operator's bearer
// token. The token itself is issued elsewhere; this core only reads it.
type Claims struct {
	Role        string   `json:"role"`
	Departments []string `json:"departments,omitempty"`
	jwt.RegisteredClaims
}

// Verifier parses and verifies bearer tokens with a shared HMAC secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Parse verifies the token signature and returns its claims.
func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromRequest extracts the bearer token from the Authorization header.
func FromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
