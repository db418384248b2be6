package token

import (
	"time"

	"rdq-api/internal/models"
)

type TokenService interface {
	GenerateRandomRefreshToken(length int) (raw string, hash []byte, err error)
	HashRefreshToken(raw string) []byte
	GenerateAccessToken(userID uint, role models.Role, ttl time.Duration) (string, error)
	ParseAccessToken(raw string) (*Claims, error)
}
