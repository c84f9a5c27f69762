package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"go-gin-todo-api/internal/core/cache"
	"go-gin-todo-api/internal/domain"
)

// ListInput is the client payload of an update. ID is optional; when set it
// must match the target list.
type ListInput struct {
	ID   uint64
	Name string
}

type ListService struct {
	repo     domain.ListRepository
	cache    *cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

// NewListService wires the repository. c may be nil to disable caching of
// List results.
func NewListService(repo domain.ListRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *ListService {
	if l == nil {
		l = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ListService{repo: repo, cache: c, cacheTTL: ttl, log: l}
}

// 每个 owner 一个代数计数器，缓存 key 带上代数
func listsGenKey(ownerID string) string { return "todo:lists:gen:" + ownerID }

func listsKey(ownerID string, gen int64) string {
	return "todo:lists:v" + strconv.FormatInt(gen, 10) + ":" + ownerID
}

func (s *ListService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.Bump(ctx, listsGenKey(ownerID)); err != nil {
		s.log.Warn("list cache invalidate failed", zap.String("owner", ownerID), zap.Error(err))
	}
}

// listCache returns the cache and key for an owner's lists, or a nil cache
// when the generation cannot be read.
func (s *ListService) listCache(ctx context.Context, ownerID string) (*cache.Cache, string) {
	if s.cache == nil {
		return nil, ""
	}
	gen, err := s.cache.Generation(ctx, listsGenKey(ownerID))
	if err != nil {
		s.log.Warn("list cache generation read failed", zap.String("owner", ownerID), zap.Error(err))
		return nil, ""
	}
	return s.cache, listsKey(ownerID, gen)
}

func (s *ListService) Create(ctx context.Context, ownerID, name string) (*domain.ToDoList, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	l := &domain.ToDoList{Name: name}
	if err := s.repo.Create(ctx, ownerID, l); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return l, nil
}

func (s *ListService) Get(ctx context.Context, ownerID string, id uint64) (*domain.ToDoList, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *ListService) List(ctx context.Context, ownerID string) ([]domain.ToDoList, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	c, key := s.listCache(ctx, ownerID)
	out, err := cache.GetOrLoadJSON(c, ctx, key, s.cacheTTL,
		func(ctx context.Context) (*[]domain.ToDoList, error) {
			ls, err := s.repo.ListByOwner(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			return &ls, nil
		})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return []domain.ToDoList{}, nil
	}
	return *out, nil
}

// Update renames a list. Checks run in order: owner-scoped lookup, id match,
// name, then the version-guarded write.
func (s *ListService) Update(ctx context.Context, ownerID string, id uint64, in ListInput) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	cur, err := s.repo.Get(ctx, ownerID, id)
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
	if err := s.repo.Update(ctx, ownerID, cur); err != nil {
		err = settleConflict(ctx, err, func(ctx context.Context) (bool, error) {
			return s.repo.Exists(ctx, ownerID, id)
		})
		if errors.Is(err, domain.ErrConflict) {
			s.log.Warn("list update conflict", zap.String("owner", ownerID), zap.Uint64("id", id))
		}
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// Delete removes the list and, with it, every item it holds.
func (s *ListService) Delete(ctx context.Context, ownerID string, id uint64) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}
