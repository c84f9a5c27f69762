package domain

import (
	"context"
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

// Credential holds the login secret of a user. It is stored apart from User
// and never serialised.
type Credential struct {
	UserID       string    `gorm:"primaryKey;size:36" json:"-"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (Credential) TableName() string { return "user_credentials" }

type UserRepository interface {
	// Create stores u and c atomically. A taken email yields ErrDuplicateEmail.
	Create(ctx context.Context, u *User, c *Credential) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindCredential(ctx context.Context, userID string) (*Credential, error)
}
