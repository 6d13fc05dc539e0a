package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-institute-sync/models"
)

var (
	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")
	ErrEmptySubject               = errors.New("empty subject error")
	ErrInvalidTokenParams         = errors.New("invalid params for generating session token")
)

// SessionClaims are the claims of a session token issued by the auth
// provider: the standard registered claims plus the dashboard role and the
// display name.
type SessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
}

// GenerateSessionToken signs an HS256 token for session that expires after
// ttl. The auth provider issues real tokens; this is used by tests and the
// dev profile.
func GenerateSessionToken(session models.Session, ttl time.Duration, signKey string) (string, error) {
	if session.UserID == "" || ttl == 0 || signKey == "" {
		return "", ErrInvalidTokenParams
	}

	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: session.Role.String(),
		Name: session.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during singing session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken verifies tokenString with signKey and maps its claims to
// a [models.Session].
//
// Validation includes:
//   - HS256 signature verification
//   - expiration (exp) check
//   - presence of the subject (sub)
//   - a role claim naming one of the supported roles
func ParseSessionToken(tokenString, signKey string) (models.Session, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Session{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" {
		return models.Session{}, ErrEmptySubject
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Session{}, fmt.Errorf("session token role: %w", err)
	}

	return models.Session{UserID: claims.Subject, Name: claims.Name, Role: role}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}
	return parts[1], nil
}
