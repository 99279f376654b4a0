// Package identity reads and issues the signed tokens the external identity
// provider hands to the front-end.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"carz/pkg/layout"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the signed-in visitor.
type Identity struct {
	Username string
	Role     layout.Role
}

// Issue signs an HS256 token for username with the given role.
func Issue(secret []byte, username string, role layout.Role, ttl time.Duration) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("username required")
	}
	if role == layout.Guest {
		role = layout.User
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"role":     role.String(),
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// Parse verifies tokenString and returns the identity it carries. A valid
// token without a role claim is a regular user.
func Parse(secret []byte, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return Identity{}, fmt.Errorf("%w: missing username", ErrInvalidToken)
	}
	roleName, _ := claims["role"].(string)
	role := layout.ParseRole(roleName)
	if role == layout.Guest {
		role = layout.User
	}
	return Identity{Username: username, Role: role}, nil
}
