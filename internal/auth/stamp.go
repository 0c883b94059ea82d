// Package auth issues and verifies session stamps: signed tokens carrying the
// last signed-in email and the moment the session expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims of a session stamp. The subject is the account email.
type Claims struct {
	jwt.RegisteredClaims
}

// Stamp is a decoded session stamp.
type Stamp struct {
	Email     string
	ExpiresAt time.Time
}

// IssueStamp signs a stamp for email valid until now+ttl.
func IssueStamp(email string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	s, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign session stamp: %w", err)
	}
	return s, nil
}

// ParseStamp verifies a stamp against secret at time now. It returns
// common.ErrSessionExpired for expired stamps and common.ErrInvalidToken
// for anything else that does not verify.
func ParseStamp(token string, secret []byte, now time.Time) (*Stamp, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !t.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &Stamp{Email: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}
