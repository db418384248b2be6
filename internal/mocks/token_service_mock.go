package mocks

import (
	"time"

	"rdq-api/internal/models"
	"rdq-api/internal/token"

	"github.com/stretchr/testify/mock"
)

type TokenService struct{ mock.Mock }

func (m *TokenService) GenerateRandomRefreshToken(length int) (raw string, hash []byte, err error) {
	args := m.Called(length)
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *TokenService) HashRefreshToken(raw string) []byte {
	args := m.Called(raw)
	var hash []byte
	if v := args.Get(0); v != nil {
		hash = v.([]byte)
	}
	return hash
}

func (m *TokenService) GenerateAccessToken(userID uint, role models.Role, ttl time.Duration) (string, error) {
	args := m.Called(userID, role, ttl)
	return args.String(0), args.Error(1)
}

func (m *TokenService) ParseAccessToken(raw string) (*token.Claims, error) {
	args := m.Called(raw)
	var claims *token.Claims
	if v := args.Get(0); v != nil {
		claims = v.(*token.Claims)
	}
	return claims, args.Error(1)
}
