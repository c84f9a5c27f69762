package domain

import (
	"context"
	"time"
)

type ToDoList struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	OwnerID   string    `gorm:"size:36;not null;index" json:"ownerId"`
	Version   int64     `gorm:"not null" json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ToDoList) TableName() string { return "todo_lists" }

// ToDoItem belongs to its owner and, in the nested shape, to one list.
// ListID is nil for items created without a parent list.
type ToDoItem struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	IsComplete bool      `gorm:"not null" json:"isComplete"`
	OwnerID    string    `gorm:"size:36;not null;index" json:"ownerId"`
	ListID     *uint64   `gorm:"index" json:"listId,omitempty"`
	Version    int64     `gorm:"not null" json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (ToDoItem) TableName() string { return "todo_items" }

// ListRepository is the only way services reach list rows. Every method is
// filtered by ownerID; rows of other owners behave as if they did not exist.
type ListRepository interface {
	Create(ctx context.Context, ownerID string, l *ToDoList) error
	ListByOwner(ctx context.Context, ownerID string) ([]ToDoList, error)
	Get(ctx context.Context, ownerID string, id uint64) (*ToDoList, error)
	// Update writes l only if its Version is still current, then bumps it.
	// A stale or missing row yields ErrConflict.
	Update(ctx context.Context, ownerID string, l *ToDoList) error
	// Delete removes the list together with its items.
	Delete(ctx context.Context, ownerID string, id uint64) error
	Exists(ctx context.Context, ownerID string, id uint64) (bool, error)
}

// ItemRepository mirrors ListRepository for items. A nil listID selects the
// flat shape (owner only); otherwise rows are also filtered by list.
type ItemRepository interface {
	Create(ctx context.Context, ownerID string, it *ToDoItem) error
	List(ctx context.Context, ownerID string, listID *uint64) ([]ToDoItem, error)
	Get(ctx context.Context, ownerID string, listID *uint64, id uint64) (*ToDoItem, error)
	Update(ctx context.Context, ownerID string, listID *uint64, it *ToDoItem) error
	Delete(ctx context.Context, ownerID string, listID *uint64, id uint64) error
	Exists(ctx context.Context, ownerID string, listID *uint64, id uint64) (bool, error)
}

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{&User{}, &Credential{}, &ToDoList{}, &ToDoItem{}}
}
