package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"rdq-api/internal/apperr"
	handlers "rdq-api/internal/handlers/auth"
	"rdq-api/internal/mocks"
	"rdq-api/internal/models"
	"rdq-api/internal/stores"
)

type stubHasher struct{ err error }

func (s stubHasher) Hash(p []byte) ([]byte, error) { return []byte("hashed-" + string(p)), nil }
func (s stubHasher) Compare(_, _ []byte) error     { return s.err }

func postJSON(t *testing.T, path, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req
	return w, ctx
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func activeUser() *models.User {
	return &models.User{
		ID:           7,
		Email:        "alice@corp.test",
		PasswordHash: "hashed-Str0ngPass!",
		Role:         models.RoleUser,
		Active:       true,
	}
}

func TestLogin(t *testing.T) {
	w, ctx := postJSON(t, "/api/auth/login", `{"email":"alice@corp.test","password":"Str0ngPass!"}`)

	userStore := new(mocks.UserStore)
	userStore.On("FindByEmail", "alice@corp.test").Return(activeUser(), nil)

	tokenService := new(mocks.TokenService)
	tokenService.On("GenerateAccessToken", uint(7), models.RoleUser, handlers.AccessTokenExpiration).
		Return("access-token", nil)
	tokenService.On("GenerateRandomRefreshToken", 32).
		Return("raw-refresh", []byte("refresh-hash"), nil)

	refreshStore := new(mocks.RefreshTokenStore)
	refreshStore.On("CreateRefreshToken", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	h := handlers.NewAuthHandler(userStore, refreshStore, stubHasher{}, tokenService, nil, zap.NewNop())
	h.Login(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp["token"])
	assert.Equal(t, "raw-refresh", resp["refresh_token"])
	assert.Equal(t, float64(7), resp["userId"])

	userStore.AssertExpectations(t)
	tokenService.AssertExpectations(t)
	refreshStore.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	w, ctx := postJSON(t, "/api/auth/login", `{"email":"ghost@corp.test","password":"whatever1!"}`)

	userStore := new(mocks.UserStore)
	userStore.On("FindByEmail", "ghost@corp.test").Return(nil, stores.ErrNotFound)

	h := handlers.NewAuthHandler(userStore, nil, stubHasher{}, nil, nil, zap.NewNop())
	h.Login(ctx)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeInvalidCredentials, errorCode(t, w))
}

func TestLoginWrongPassword(t *testing.T) {
	w, ctx := postJSON(t, "/api/auth/login", `{"email":"alice@corp.test","password":"wrong"}`)

	userStore := new(mocks.UserStore)
	userStore.On("FindByEmail", "alice@corp.test").Return(activeUser(), nil)

	h := handlers.NewAuthHandler(userStore, nil, stubHasher{err: errors.New("mismatch")}, nil, nil, zap.NewNop())
	h.Login(ctx)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeInvalidCredentials, errorCode(t, w))
}

func TestLoginDeactivatedAccount(t *testing.T) {
	w, ctx := postJSON(t, "/api/auth/login", `{"email":"alice@corp.test","password":"Str0ngPass!"}`)

	locked := activeUser()
	locked.Active = false

	userStore := new(mocks.UserStore)
	userStore.On("FindByEmail", "alice@corp.test").Return(locked, nil)

	h := handlers.NewAuthHandler(userStore, nil, stubHasher{}, nil, nil, zap.NewNop())
	h.Login(ctx)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeAccountLocked, errorCode(t, w))
}

func TestRefreshRotatesToken(t *testing.T) {
	w, ctx := postJSON(t, "/api/auth/refresh", `{"refresh_token":"raw-refresh"}`)

	tokenService := new(mocks.TokenService)
	tokenService.On("HashRefreshToken", "raw-refresh").Return([]byte("refresh-hash"))
	tokenService.On("GenerateAccessToken", uint(7), models.RoleUser, handlers.AccessTokenExpiration).
		Return("new-access", nil)

	refreshStore := new(mocks.RefreshTokenStore)
	refreshStore.On("Rotate", []byte("refresh-hash"), mock.Anything, handlers.RefreshTokenExpiration).
		Return(stores.RotateResult{UserID: 7, Role: models.RoleUser, NewRaw: "next-refresh"}, nil)

	h := handlers.NewAuthHandler(nil, refreshStore, stubHasher{}, tokenService, nil, zap.NewNop())
	h.RefreshToken(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new-access", resp["token"])
	assert.Equal(t, "next-refresh", resp["refresh_token"])

	refreshStore.AssertExpectations(t)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	w, ctx := postJSON(t, "/api/auth/refresh", `{"refresh_token":"stolen"}`)

	tokenService := new(mocks.TokenService)
	tokenService.On("HashRefreshToken", "stolen").Return([]byte("bad-hash"))

	refreshStore := new(mocks.RefreshTokenStore)
	refreshStore.On("Rotate", []byte("bad-hash"), mock.Anything, handlers.RefreshTokenExpiration).
		Return(stores.RotateResult{}, stores.ErrInvalidRefresh)

	h := handlers.NewAuthHandler(nil, refreshStore, stubHasher{}, tokenService, nil, zap.NewNop())
	h.RefreshToken(ctx)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperr.CodeInvalidToken, errorCode(t, w))
}
