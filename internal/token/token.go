// Package token issues signed bearer tokens. Issuance is one-way: the
// service never parses tokens back, any holder of the signing key can
// verify them independently.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is how long an issued token stays valid.
const TTL = time.Hour

// Claims carries the user identity embedded in each token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// Issuer signs tokens with a process-wide HMAC secret.
type Issuer struct {
	secret []byte
}

// NewIssuer creates an Issuer signing with the given secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Issue produces an HS256-signed token for the given user, expiring
// TTL from now.
func (i *Issuer) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
		UserID: userID,
		Email:  email,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
