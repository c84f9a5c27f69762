package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-gin-todo-api/internal/domain"
)

// FromError maps a service error to an HTTP status and client message.
// Unknown errors become a bare 500 so storage details never leak.
func FromError(err error) (int, string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return CodeBadRequest, ve.Msg
	case errors.Is(err, domain.ErrUnauthenticated):
		return CodeUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return CodeUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound, "not found"
	case errors.Is(err, domain.ErrIDMismatch):
		return CodeBadRequest, domain.ErrIDMismatch.Error()
	case errors.Is(err, domain.ErrConflict):
		return CodeConflict, domain.ErrConflict.Error()
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDuplicateEmail):
		return CodeBadRequest, err.Error()
	}
	return CodeServerError, "internal error"
}

// BindMessage reports only the first binding failure in plain words.
func BindMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "invalid request body"
	}
	fe := ves[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return field + " is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
