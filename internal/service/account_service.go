package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"go-gin-todo-api/internal/domain"
	"go-gin-todo-api/pkg/utils"
)

const minPasswordLen = 6

type TokenIssuer interface {
	Issue(uid, email string) (string, error)
}

type AuthResult struct {
	UserID string
	Email  string
	Token  string
}

type AccountService struct {
	users  domain.UserRepository
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAccountService(users domain.UserRepository, tokens TokenIssuer, l *zap.Logger) *AccountService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AccountService{users: users, tokens: tokens, log: l}
}

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := utils.HashPassword("timing-equaliser")
	return h
})

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func validatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < minPasswordLen {
		return domain.Invalid("password must be at least %d characters", minPasswordLen)
	}
	if len(pw) > utils.MaxPasswordBytes {
		return domain.Invalid("password must be at most %d bytes", utils.MaxPasswordBytes)
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email,max=191"); err != nil {
		return nil, domain.Invalid("email must be a valid email address")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{ID: utils.NewID(), Email: email}
	if err := s.users.Create(ctx, u, &domain.Credential{PasswordHash: hash}); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, &domain.ValidationError{Msg: "email '" + email + "' is already taken", Err: err}
		}
		return nil, err
	}
	s.log.Info("user registered", zap.String("uid", u.ID))
	return s.issue(u)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	u, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.CheckPassword(password, dummyHash())
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	cred, err := s.users.FindCredential(ctx, u.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.CheckPassword(password, dummyHash())
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}
	if !utils.CheckPassword(password, cred.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AccountService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, userID)
}

func (s *AccountService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{UserID: u.ID, Email: u.Email, Token: tok}, nil
}
