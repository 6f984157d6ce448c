package services

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is the lifetime of an issued bearer token.
const TokenTTL = 24 * time.Hour

// TokenService issues HS256 bearer tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Generate issues a token carrying the account id, username and type.
func (s *TokenService) Generate(userID, username, userType string) (string, error) {
	claims := jwt.MapClaims{
		"id":       userID,
		"username": username,
		"type":     userType,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
