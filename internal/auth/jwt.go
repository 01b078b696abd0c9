package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "glpi-dashboard"

// Claims defines the structured data we store in the JWT
type Claims struct {
	ViewerID uuid.UUID `json:"viewer_id"`
	jwt.RegisteredClaims
}

// TokenManager issues and checks the short-lived tokens that let a
// dashboard page open its live channel.
type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secretKey: []byte(secret), ttl: ttl}
}

// RandomSecret returns a 256-bit hex secret for processes started without
// a configured one. Tokens signed with it die with the process.
func RandomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateToken creates a token for a dashboard viewer
func (tm *TokenManager) GenerateToken(viewerID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		ViewerID: viewerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			Subject:   viewerID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// ValidateToken parses and validates the token string
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secretKey, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.ViewerID == uuid.Nil {
		return nil, errors.New("token has no viewer")
	}

	return claims, nil
}
