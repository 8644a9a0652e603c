package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer    = "adms"
	Audience  = "adms-admin"
	RoleAdmin = "admin"
)

// AdminClaims authorise calls to the management API.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// DecodeSecret decodes the base64 HS256 signing key.
func DecodeSecret(base64Secret string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	if len(secret) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	return secret, nil
}

func CreateAdminToken(subject string, secret []byte, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			Audience:  []string{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAdminToken validates signature, expiry, issuer, audience and role.
func ParseAdminToken(tokenStr string, secret []byte) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != RoleAdmin {
		return nil, errors.New("token is not an admin token")
	}
	return claims, nil
}
