package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// RoleAdmin may run the setup wizard and edit entries
	RoleAdmin = "admin"
	// RoleClient may only stream audio for transcription
	RoleClient = "client"

	// DefaultTTL is the lifetime of an access token
	DefaultTTL = 24 * time.Hour

	claimsContextKey = "auth_claims"
)

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	ClientID string `json:"client_id"`
	Role     string `json:"role"` // "admin" or "client"
	jwt.RegisteredClaims
}

// TokenManager signs and validates host access tokens
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a token manager for an HMAC secret
func NewTokenManager(secret string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret is required")
	}
	return &TokenManager{secret: []byte(secret)}, nil
}

// GenerateToken issues a token for clientID with role, valid for ttl
func (m *TokenManager) GenerateToken(clientID, role string, ttl time.Duration) (string, time.Time, error) {
	if role != RoleAdmin && role != RoleClient {
		return "", time.Time{}, fmt.Errorf("unknown role %q", role)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &JWTClaims{
		ClientID: clientID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func (m *TokenManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

// errorBody mirrors api.ErrorResponse without importing it
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Middleware rejects requests without a valid bearer token carrying one of roles
func (m *TokenManager) Middleware(logger *zap.Logger, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				logger.Warn("Request rejected: missing token", zap.String("path", c.Path()))
				return c.JSON(http.StatusUnauthorized, errorBody{
					Error:   "missing_token",
					Message: "JWT token is required in Authorization header",
				})
			}

			claims, err := m.ValidateToken(token)
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, errorBody{
					Error:   "invalid_token",
					Message: "Invalid or expired JWT token",
				})
			}

			if !hasRole(claims.Role, roles) {
				logger.Warn("Request rejected: invalid role",
					zap.String("role", claims.Role),
					zap.String("path", c.Path()))
				return c.JSON(http.StatusForbidden, errorBody{
					Error:   "invalid_role",
					Message: "Token role is not allowed for this endpoint",
				})
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Middleware
func ClaimsFrom(c echo.Context) *JWTClaims {
	claims, _ := c.Get(claimsContextKey).(*JWTClaims)
	return claims
}

func hasRole(role string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
