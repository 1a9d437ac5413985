package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventhub/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin"`
}

// JWTAuthority signs and verifies HS256 tokens with a shared secret.
// It implements both domain.TokenIssuer and domain.TokenVerifier.
type JWTAuthority struct {
	secret []byte
	now    func() time.Time
}

// NewJWTAuthority returns a JWTAuthority using the given secret.
func NewJWTAuthority(secret string) *JWTAuthority {
	return &JWTAuthority{secret: []byte(secret), now: time.Now}
}

var (
	_ domain.TokenIssuer   = (*JWTAuthority)(nil)
	_ domain.TokenVerifier = (*JWTAuthority)(nil)
)

func (a *JWTAuthority) Issue(userID string, isAdmin bool, expiry time.Duration) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(expiry)
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		IsAdmin: isAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Verify parses token and checks signature, algorithm and expiry.
// Every failure is reported as domain.ErrInvalidToken.
func (a *JWTAuthority) Verify(token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, fmt.Errorf("%w: expired", domain.ErrInvalidToken)
		}
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return domain.Principal{UserID: claims.Subject, IsAdmin: claims.IsAdmin}, nil
}
