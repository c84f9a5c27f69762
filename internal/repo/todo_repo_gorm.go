package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-gin-todo-api/internal/domain"
)

// ListRepo and ItemRepo are the single place where owner filters are
// applied. Every query carries "owner_id = ?".
type ListRepo struct{ db *gorm.DB }

func NewListRepo(db *gorm.DB) *ListRepo { return &ListRepo{db: db} }

var _ domain.ListRepository = (*ListRepo)(nil)

func (r *ListRepo) owned(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.ToDoList{}).Where("owner_id = ?", ownerID)
}

func (r *ListRepo) Create(ctx context.Context, ownerID string, l *domain.ToDoList) error {
	l.ID = 0
	l.OwnerID = ownerID
	l.Version = 1
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *ListRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.ToDoList, error) {
	out := make([]domain.ToDoList, 0)
	if err := r.owned(ctx, ownerID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ListRepo) Get(ctx context.Context, ownerID string, id uint64) (*domain.ToDoList, error) {
	var l domain.ToDoList
	if err := r.owned(ctx, ownerID).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (r *ListRepo) Update(ctx context.Context, ownerID string, l *domain.ToDoList) error {
	now := time.Now()
	res := r.owned(ctx, ownerID).
		Where("id = ? AND version = ?", l.ID, l.Version).
		Updates(map[string]any{
			"name":       l.Name,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	l.Version++
	l.UpdatedAt = now
	return nil
}

// Delete cascades to the list's items inside one transaction.
func (r *ListRepo) Delete(ctx context.Context, ownerID string, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.ToDoList{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("list_id = ? AND owner_id = ?", id, ownerID).Delete(&domain.ToDoItem{}).Error
	})
}

func (r *ListRepo) Exists(ctx context.Context, ownerID string, id uint64) (bool, error) {
	var n int64
	err := r.owned(ctx, ownerID).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

type ItemRepo struct{ db *gorm.DB }

func NewItemRepo(db *gorm.DB) *ItemRepo { return &ItemRepo{db: db} }

var _ domain.ItemRepository = (*ItemRepo)(nil)

// scoped filters by owner and, for the nested shape, by list.
func (r *ItemRepo) scoped(ctx context.Context, ownerID string, listID *uint64) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.ToDoItem{}).Where("owner_id = ?", ownerID)
	if listID != nil {
		q = q.Where("list_id = ?", *listID)
	}
	return q
}

func listOwned(tx *gorm.DB, ownerID string, listID uint64) (bool, error) {
	var n int64
	err := tx.Model(&domain.ToDoList{}).Where("id = ? AND owner_id = ?", listID, ownerID).Count(&n).Error
	return n > 0, err
}

// Create checks the parent list and inserts in the same transaction, so an
// item can never be written under a missing or foreign list.
func (r *ItemRepo) Create(ctx context.Context, ownerID string, it *domain.ToDoItem) error {
	it.ID = 0
	it.OwnerID = ownerID
	it.Version = 1
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if it.ListID != nil {
			ok, err := listOwned(tx, ownerID, *it.ListID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrNotFound
			}
		}
		return tx.Create(it).Error
	})
}

func (r *ItemRepo) List(ctx context.Context, ownerID string, listID *uint64) ([]domain.ToDoItem, error) {
	if listID != nil {
		ok, err := listOwned(r.db.WithContext(ctx), ownerID, *listID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrNotFound
		}
	}
	out := make([]domain.ToDoItem, 0)
	if err := r.scoped(ctx, ownerID, listID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ItemRepo) Get(ctx context.Context, ownerID string, listID *uint64, id uint64) (*domain.ToDoItem, error) {
	var it domain.ToDoItem
	if err := r.scoped(ctx, ownerID, listID).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, notFound(err)
	}
	return &it, nil
}

func (r *ItemRepo) Update(ctx context.Context, ownerID string, listID *uint64, it *domain.ToDoItem) error {
	now := time.Now()
	res := r.scoped(ctx, ownerID, listID).
		Where("id = ? AND version = ?", it.ID, it.Version).
		Updates(map[string]any{
			"name":        it.Name,
			"is_complete": it.IsComplete,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	it.Version++
	it.UpdatedAt = now
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, ownerID string, listID *uint64, id uint64) error {
	q := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID)
	if listID != nil {
		q = q.Where("list_id = ?", *listID)
	}
	res := q.Delete(&domain.ToDoItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) Exists(ctx context.Context, ownerID string, listID *uint64, id uint64) (bool, error) {
	var n int64
	err := r.scoped(ctx, ownerID, listID).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
