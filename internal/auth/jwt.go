package auth

import (
	"time"

	"florist-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	Login string          `json:"login"`
	Role  models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for user. A zero ttl produces a token without expiry.
func GenerateToken(secret string, ttl time.Duration, user models.User) (string, error) {
	now := time.Now()
	claims := &JWTCustomClaims{
		Login: user.Login,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.Login,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
