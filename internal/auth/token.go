package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the default validity period for issued tokens.
const tokenTTL = 7 * 24 * time.Hour

// IssueToken signs a JWT for the given user. Used by ops tooling and tests;
// in production tokens are normally minted by the identity provider.
func IssueToken(secret, userID string, scope []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
