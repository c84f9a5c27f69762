// Package service holds the use cases. Every call takes the acting user's id
// explicitly; the services reach storage only through domain repositories.
package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"go-gin-todo-api/internal/domain"
)

const maxNameLen = 255

var validate = validator.New()

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "", domain.Invalid("name must be at most %d characters", maxNameLen)
	}
	return name, nil
}

// settleConflict turns a failed conditional write into ErrNotFound when the
// row is gone, or keeps ErrConflict when someone else changed it.
func settleConflict(ctx context.Context, err error, exists func(context.Context) (bool, error)) error {
	if !errors.Is(err, domain.ErrConflict) {
		return err
	}
	ok, e := exists(ctx)
	if e != nil {
		return e
	}
	if !ok {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}
