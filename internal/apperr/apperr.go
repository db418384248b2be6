package apperr

import (
	"errors"
	"fmt"
)

// Machine-readable error codes surfaced in API error envelopes.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeRdqNotFound        = "RDQ_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAccessDenied       = "ACCESS_DENIED"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeEmailExists        = "EMAIL_ALREADY_EXISTS"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is a domain error with a stable code and a human-readable message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf returns the domain code of err, or CodeInternal for anything
// unclassified.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func Validation(message string) *Error {
	return New(CodeValidation, message)
}

func RdqNotFound(id uint) *Error {
	return New(CodeRdqNotFound, fmt.Sprintf("RDQ with id %d not found", id))
}

func UserNotFound(id uint) *Error {
	return New(CodeUserNotFound, fmt.Sprintf("user with id %d not found", id))
}

func UserNotFoundByEmail(email string) *Error {
	return New(CodeUserNotFound, "user with email "+email+" not found")
}

func AccessDenied(message string) *Error {
	return New(CodeAccessDenied, message)
}

func InvalidStatus(message string) *Error {
	return New(CodeInvalidStatus, message)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, "invalid email or password")
}

func AccountLocked() *Error {
	return New(CodeAccountLocked, "account is deactivated")
}

func EmailExists() *Error {
	return New(CodeEmailExists, "this email is already in use")
}

func WeakPassword() *Error {
	return New(CodeWeakPassword,
		"password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a digit and a special character")
}

func InvalidToken(message string) *Error {
	return New(CodeInvalidToken, message)
}
