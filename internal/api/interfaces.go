package api

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/hard75/api/pkg/entity"
)

// JWTClaims carry the external identity token (clerk id) as the subject
// identity for all authenticated operations.
type JWTClaims struct {
	ClerkID  string `json:"clerk_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type JwtServiceI interface {
	GenerateToken(user *entity.User) (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}
