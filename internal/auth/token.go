package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
)

// TokenManager handles JWT token generation and validation
type TokenManager struct {
	secret                  string
	sessionTokenExpiry      time.Duration
	verificationTokenExpiry time.Duration
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, sessionExpiry, verificationExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:                  secret,
		sessionTokenExpiry:      sessionExpiry,
		verificationTokenExpiry: verificationExpiry,
	}
}

// GenerateSessionToken creates a long-lived session token for a logged-in user
func (tm *TokenManager) GenerateSessionToken(userID string) (string, error) {
	claims := &models.TokenClaims{
		Type:   models.TokenTypeSession,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.sessionTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// GenerateVerificationToken creates a short-lived token embedding the email
// address being verified. The token is also persisted on the user record so
// a stale link cannot verify an account twice.
func (tm *TokenManager) GenerateVerificationToken(email string) (string, error) {
	claims := &models.TokenClaims{
		Type:  models.TokenTypeVerify,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.verificationTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken verifies a session token and returns its claims
func (tm *TokenManager) ValidateSessionToken(tokenString string) (*models.TokenClaims, error) {
	claims, err := tm.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != models.TokenTypeSession || claims.UserID == "" {
		return nil, models.ErrUnauthorized
	}
	return claims, nil
}

// ValidateVerificationToken verifies an email verification token and returns
// its claims
func (tm *TokenManager) ValidateVerificationToken(tokenString string) (*models.TokenClaims, error) {
	claims, err := tm.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != models.TokenTypeVerify || claims.Email == "" {
		return nil, models.ErrUnauthorized
	}
	return claims, nil
}

func (tm *TokenManager) parse(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	})
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	if !token.Valid {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}
