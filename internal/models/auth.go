package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token types issued by the TokenManager
const (
	TokenTypeSession = "session"
	TokenTypeVerify  = "verify"
)

type TokenClaims struct {
	Type   string `json:"type"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
