package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"go-gin-todo-api/internal/domain"
)

type ItemInput struct {
	ID         uint64
	Name       string
	IsComplete bool
}

// ItemService serves both item shapes: listID == nil is the flat shape
// (owner only), otherwise the item must live in that list.
type ItemService struct {
	repo domain.ItemRepository
	log  *zap.Logger
}

func NewItemService(repo domain.ItemRepository, l *zap.Logger) *ItemService {
	if l == nil {
		l = zap.NewNop()
	}
	return &ItemService{repo: repo, log: l}
}

func (s *ItemService) Create(ctx context.Context, ownerID string, listID *uint64, in ItemInput) (*domain.ToDoItem, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	it := &domain.ToDoItem{Name: name, IsComplete: in.IsComplete, ListID: listID}
	if err := s.repo.Create(ctx, ownerID, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ItemService) Get(ctx context.Context, ownerID string, listID *uint64, id uint64) (*domain.ToDoItem, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.Get(ctx, ownerID, listID, id)
}

func (s *ItemService) List(ctx context.Context, ownerID string, listID *uint64) ([]domain.ToDoItem, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.List(ctx, ownerID, listID)
}

func (s *ItemService) Update(ctx context.Context, ownerID string, listID *uint64, id uint64, in ItemInput) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	cur, err := s.repo.Get(ctx, ownerID, listID, id)
	if err != nil {
		return err
	}
	if in.ID != 0 && in.ID != cur.ID {
		return domain.ErrIDMismatch
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return err
	}
	cur.Name = name
	cur.IsComplete = in.IsComplete
	if err := s.repo.Update(ctx, ownerID, listID, cur); err != nil {
		err = settleConflict(ctx, err, func(ctx context.Context) (bool, error) {
			return s.repo.Exists(ctx, ownerID, listID, id)
		})
		if errors.Is(err, domain.ErrConflict) {
			s.log.Warn("item update conflict", zap.String("owner", ownerID), zap.Uint64("id", id))
		}
		return err
	}
	return nil
}

func (s *ItemService) Delete(ctx context.Context, ownerID string, listID *uint64, id uint64) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	return s.repo.Delete(ctx, ownerID, listID, id)
}
