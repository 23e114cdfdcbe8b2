package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tourbook/internal/api"
)

type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

const tokenTTL = 12 * time.Hour

// IssueToken mints an HS256 bearer token for the given user.
func IssueToken(userID, email string, role api.Role, secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing jwt secret")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Email: email,
		Role:  string(role),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// VerifyToken validates a bearer token and returns the actor it identifies.
func VerifyToken(tokenString string, secret string, now time.Time) (*api.Actor, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing jwt secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, fmt.Errorf("token expired")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject")
	}

	role, err := parseRole(claims.Role)
	if err != nil {
		return nil, err
	}

	return &api.Actor{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  role,
	}, nil
}

// parseRole is fail-closed: any unknown or missing role claim is refused
// rather than defaulting to a permissive role.
func parseRole(s string) (api.Role, error) {
	switch api.Role(s) {
	case api.RoleCustomer, api.RoleAdmin, api.RoleResource:
		return api.Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}
