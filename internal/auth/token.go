package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stockroom/stockroom/internal/models"
)

// bearerPrefix is the only accepted Authorization scheme. The prefix is
// lowercase and case-sensitive; any other form counts as "no token".
const bearerPrefix = "bearer "

// SessionClaims are the claims embedded in a session token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret string
	expiry time.Duration
}

// NewTokenManager creates a TokenManager. The signing secret is process-wide
// configuration loaded once at startup.
func NewTokenManager(secret string, expiry time.Duration) *TokenManager {
	return &TokenManager{
		secret: secret,
		expiry: expiry,
	}
}

// GenerateToken creates a signed HS256 token embedding the user id, valid
// for the configured expiry (one day by default).
func (tm *TokenManager) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken verifies signature and expiry and returns the embedded user
// id. Malformed, mis-signed and expired tokens all collapse to
// models.ErrSessionExpired; callers are never told which check failed.
func (tm *TokenManager) ValidateToken(tokenString string) (string, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})

	if err != nil || !token.Valid || claims.UserID == "" {
		return "", models.ErrSessionExpired
	}

	return claims.UserID, nil
}

// TokenFromRequest extracts a bearer token from the Authorization header.
// Only the exact form "bearer <token>" is accepted; an absent header or any
// other scheme yields an empty string.
func TokenFromRequest(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if strings.HasPrefix(authorization, bearerPrefix) {
		return authorization[len(bearerPrefix):]
	}
	return ""
}
