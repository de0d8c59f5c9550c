package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eternalinsky-max/proponujeprace/pkg/middleware"
)

// tokenClaims are the claims the identity provider puts in its access tokens.
// The subject is the provider-issued UID; profile fields ride along so the
// first authenticated request can create the local user without a second
// round trip.
type tokenClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Admin   bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens issued by the external identity provider.
// Only verification is local; tokens are never issued here.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for HS256-signed provider tokens.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a token, returning the identity claims. It
// satisfies middleware.TokenValidator.
func (v *Verifier) Verify(tokenString string) (*middleware.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token carries no subject")
	}

	return &middleware.Claims{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		Admin:   claims.Admin,
	}, nil
}
