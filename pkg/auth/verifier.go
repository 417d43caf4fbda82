package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the owner identity fields taken from a bearer token.
type Claims struct {
	Subject string
	Email   string
}

// Verifier checks owner bearer tokens signed either with a shared HS256
// secret or with an RS256 key from a JWKS endpoint.
type Verifier struct {
	secret []byte
	jwks   *Provider
}

// NewVerifier accepts either source. A nil provider disables RS256.
func NewVerifier(secret string, jwks *Provider) *Verifier {
	v := &Verifier{jwks: jwks}
	if secret != "" {
		v.secret = []byte(secret)
	}
	return v
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.secret == nil {
			return nil, errors.New("HS256 token received but JWT_SECRET is not configured")
		}
		return v.secret, nil
	case *jwt.SigningMethodRSA:
		if v.jwks == nil {
			return nil, errors.New("RS256 token received but SUPABASE_URL is not configured")
		}
		return v.jwks.KeyFunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}

// Verify parses tokenString and returns its claims. A token without a
// subject is rejected.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, v.keyFunc,
		jwt.WithValidMethods([]string{"HS256", "RS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid claims")
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, errors.New("token has no subject")
	}
	email, _ := mc["email"].(string)
	return &Claims{Subject: sub, Email: email}, nil
}
