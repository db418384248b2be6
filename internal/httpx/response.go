package httpx

import (
	"errors"
	"net/http"
	"time"

	"rdq-api/internal/apperr"
	"rdq-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the failure envelope returned by every endpoint.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// PageResponse mirrors the pagination envelope.
type PageResponse[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	NumberOfElements int   `json:"numberOfElements"`
}

var statusByCode = map[string]int{
	apperr.CodeValidation:         http.StatusBadRequest,
	apperr.CodeWeakPassword:       http.StatusBadRequest,
	apperr.CodeInvalidCredentials: http.StatusUnauthorized,
	apperr.CodeAccountLocked:      http.StatusUnauthorized,
	apperr.CodeInvalidToken:       http.StatusUnauthorized,
	apperr.CodeAccessDenied:       http.StatusForbidden,
	apperr.CodeRdqNotFound:        http.StatusNotFound,
	apperr.CodeUserNotFound:       http.StatusNotFound,
	apperr.CodeInvalidStatus:      http.StatusConflict,
	apperr.CodeConflict:           http.StatusConflict,
	apperr.CodeEmailExists:        http.StatusConflict,
}

// StatusForCode maps a domain error code to an HTTP status.
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error writes the failure envelope for err. Unclassified errors are logged
// and surfaced as a generic internal error so no internals leak.
func Error(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	message := err.Error()
	if code == apperr.CodeInternal {
		if logger.Logger != nil {
			logger.Logger.Error("unexpected error",
				zap.String("path", c.FullPath()), zap.Error(err))
		}
		message = "internal server error"
	} else {
		var e *apperr.Error
		if errors.As(err, &e) {
			message = e.Message
		}
	}

	c.AbortWithStatusJSON(StatusForCode(code), ErrorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}

// BadRequest writes a VALIDATION_ERROR envelope for binding failures.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Code:      apperr.CodeValidation,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	})
}
