package repo_test

import (
	"context"
	"errors"
	"testing"

	"go-gin-todo-api/internal/core/database/dbtest"
	"go-gin-todo-api/internal/domain"
	"go-gin-todo-api/internal/repo"
)

func TestUserRepoCreateAndFind(t *testing.T) {
	ctx := context.Background()
	users := repo.NewUserRepo(dbtest.New(t))

	u := &domain.User{ID: "u1", Email: "a@x.com"}
	if err := users.Create(ctx, u, &domain.Credential{PasswordHash: "hash"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byEmail, err := users.FindByEmail(ctx, "a@x.com")
	if err != nil || byEmail.ID != "u1" {
		t.Fatalf("FindByEmail() = %+v, %v", byEmail, err)
	}
	byID, err := users.FindByID(ctx, "u1")
	if err != nil || byID.Email != "a@x.com" {
		t.Fatalf("FindByID() = %+v, %v", byID, err)
	}
	cred, err := users.FindCredential(ctx, "u1")
	if err != nil || cred.PasswordHash != "hash" {
		t.Fatalf("FindCredential() = %+v, %v", cred, err)
	}

	if _, err := users.FindByEmail(ctx, "nobody@x.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByEmail(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := users.FindByID(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := repo.NewUserRepo(dbtest.New(t))

	if err := users.Create(ctx, &domain.User{ID: "u1", Email: "a@x.com"}, &domain.Credential{PasswordHash: "h"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := users.Create(ctx, &domain.User{ID: "u2", Email: "a@x.com"}, &domain.Credential{PasswordHash: "h"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("duplicate Create() error = %v, want ErrDuplicateEmail", err)
	}
	if _, err := users.FindByID(ctx, "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("duplicate user was stored: err = %v", err)
	}
	if _, err := users.FindCredential(ctx, "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("duplicate credential was stored: err = %v", err)
	}
}
