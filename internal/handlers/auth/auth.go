package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rdq-api/internal/apperr"
	"rdq-api/internal/blacklist"
	"rdq-api/internal/httpx"
	"rdq-api/internal/middleware"
	"rdq-api/internal/models"
	"rdq-api/internal/stores"
	"rdq-api/internal/token"
	"rdq-api/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthHandler struct {
	UserStore         stores.UserStore
	RefreshTokenStore stores.RefreshTokenStore
	Hasher            user.PasswordHasher
	TokenService      token.TokenService
	Blacklist         blacklist.Blacklist
	Log               *zap.Logger
}

const RefreshTokenExpiration time.Duration = 7 * 24 * time.Hour
const AccessTokenExpiration time.Duration = time.Hour

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(
	userStore stores.UserStore,
	refreshTokenStore stores.RefreshTokenStore,
	hasher user.PasswordHasher,
	tokenService token.TokenService,
	bl blacklist.Blacklist,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		UserStore:         userStore,
		RefreshTokenStore: refreshTokenStore,
		Hasher:            hasher,
		TokenService:      tokenService,
		Blacklist:         bl,
		Log:               log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "email and password are required")
		return
	}

	h.Log.Info("login attempt", zap.String("email", req.Email), zap.String("ip", c.ClientIP()))

	u, err := h.UserStore.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(c, apperr.InvalidCredentials())
			return
		}
		httpx.Error(c, err)
		return
	}

	if !u.Active {
		h.Log.Warn("login refused, account locked", zap.String("email", req.Email))
		httpx.Error(c, apperr.AccountLocked())
		return
	}

	if err := h.Hasher.Compare([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		h.Log.Warn("login failed", zap.String("email", req.Email), zap.String("ip", c.ClientIP()))
		httpx.Error(c, apperr.InvalidCredentials())
		return
	}

	tokenString, err := h.TokenService.GenerateAccessToken(u.ID, u.Role, AccessTokenExpiration)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	refreshTokenString, hashedRefreshToken, err := h.TokenService.GenerateRandomRefreshToken(32)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	refreshToken := models.RefreshToken{
		TokenHash: hashedRefreshToken, // Store hashed token
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(RefreshTokenExpiration),
	}
	if err := h.RefreshTokenStore.CreateRefreshToken(&refreshToken); err != nil {
		httpx.Error(c, err)
		return
	}

	h.Log.Info("login successful", zap.String("email", req.Email))
	c.JSON(http.StatusOK, gin.H{
		"token":         tokenString,
		"refresh_token": refreshTokenString,
		"userId":        u.ID,
		"email":         u.Email,
		"role":          u.Role,
		"expiresAt":     time.Now().Add(AccessTokenExpiration).UTC(),
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "refresh_token is required")
		return
	}

	hash := h.TokenService.HashRefreshToken(req.RefreshToken)

	res, err := h.RefreshTokenStore.Rotate(hash, time.Now(), RefreshTokenExpiration)
	if err != nil {
		if errors.Is(err, stores.ErrInvalidRefresh) {
			httpx.Error(c, apperr.InvalidToken("invalid refresh token"))
			return
		}
		httpx.Error(c, err)
		return
	}

	accessTokenString, err := h.TokenService.GenerateAccessToken(res.UserID, res.Role, AccessTokenExpiration)
	if err != nil {
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         accessTokenString,
		"refresh_token": res.NewRaw,
	})
}

// Logout revokes the refresh token and blacklists the presented access
// token for the remainder of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "refresh_token is required")
		return
	}

	hashed := h.TokenService.HashRefreshToken(req.RefreshToken)
	if err := h.RefreshTokenStore.RevokeRefreshToken(hashed); err != nil {
		httpx.Error(c, err)
		return
	}

	if h.Blacklist != nil {
		raw := c.GetString(middleware.CtxToken)
		if expVal, ok := c.Get(middleware.CtxExpiresAt); ok {
			ttl := time.Until(expVal.(time.Time))
			if err := h.Blacklist.AddToken(c.Request.Context(), raw, ttl); err != nil {
				h.Log.Warn("failed to blacklist access token", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.CallerID(c)

	u, err := h.UserStore.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(c, apperr.UserNotFound(userID))
			return
		}
		httpx.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
	})
}
