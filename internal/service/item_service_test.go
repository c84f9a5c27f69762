package service_test

import (
	"context"
	"errors"
	"testing"

	"go-gin-todo-api/internal/core/database/dbtest"
	"go-gin-todo-api/internal/domain"
	"go-gin-todo-api/internal/repo"
	"go-gin-todo-api/internal/service"
)

func newTodoServices(t *testing.T) (*service.ListService, *service.ItemService) {
	t.Helper()
	db := dbtest.New(t)
	return service.NewListService(repo.NewListRepo(db), nil, 0, nil),
		service.NewItemService(repo.NewItemRepo(db), nil)
}

func TestItemNestedFlow(t *testing.T) {
	ctx := context.Background()
	lists, items := newTodoServices(t)

	l, _ := lists.Create(ctx, "alice", "Groceries")
	it, err := items.Create(ctx, "alice", &l.ID, service.ItemInput{Name: "Milk"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if it.IsComplete || it.ListID == nil || *it.ListID != l.ID || it.OwnerID != "alice" {
		t.Fatalf("Create() = %+v", it)
	}

	got, err := items.List(ctx, "alice", &l.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Milk" || got[0].IsComplete {
		t.Fatalf("List() = %+v, want exactly [{Milk false}]", got)
	}

	if err := items.Update(ctx, "alice", &l.ID, it.ID, service.ItemInput{Name: "Milk", IsComplete: true}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	one, _ := items.Get(ctx, "alice", &l.ID, it.ID)
	if !one.IsComplete {
		t.Error("IsComplete not updated")
	}

	if _, err := items.Get(ctx, "bob", &l.ID, it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() by bob error = %v, want ErrNotFound", err)
	}
	if _, err := items.Get(ctx, "bob", nil, it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("flat Get() by bob error = %v, want ErrNotFound", err)
	}
}

func TestItemCreateMissingParent(t *testing.T) {
	ctx := context.Background()
	lists, items := newTodoServices(t)
	bobs, _ := lists.Create(ctx, "bob", "bob's")

	missing := uint64(4242)
	if _, err := items.Create(ctx, "alice", &missing, service.ItemInput{Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing parent: error = %v, want ErrNotFound", err)
	}
	if _, err := items.Create(ctx, "alice", &bobs.ID, service.ItemInput{Name: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign parent: error = %v, want ErrNotFound", err)
	}
	if flat, _ := items.List(ctx, "alice", nil); len(flat) != 0 {
		t.Errorf("items written: %+v", flat)
	}
}

func TestItemFlatShape(t *testing.T) {
	ctx := context.Background()
	lists, items := newTodoServices(t)
	l, _ := lists.Create(ctx, "alice", "L")

	loose, err := items.Create(ctx, "alice", nil, service.ItemInput{Name: "loose", IsComplete: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if loose.ListID != nil {
		t.Errorf("flat item has list %d", *loose.ListID)
	}
	if _, err := items.Create(ctx, "alice", &l.ID, service.ItemInput{Name: "nested"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	all, _ := items.List(ctx, "alice", nil)
	if len(all) != 2 {
		t.Errorf("flat List() = %d items, want 2", len(all))
	}
	inList, _ := items.List(ctx, "alice", &l.ID)
	if len(inList) != 1 || inList[0].Name != "nested" {
		t.Errorf("nested List() = %+v", inList)
	}
	// 扁平形态下的条目不属于任何清单
	if _, err := items.Get(ctx, "alice", &l.ID, loose.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() of flat item through list error = %v, want ErrNotFound", err)
	}
}

func TestItemUpdateOrderingAndValidation(t *testing.T) {
	ctx := context.Background()
	_, items := newTodoServices(t)
	it, _ := items.Create(ctx, "alice", nil, service.ItemInput{Name: "a"})

	if err := items.Update(ctx, "", nil, it.ID, service.ItemInput{Name: "b"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("no owner: error = %v, want ErrUnauthenticated", err)
	}
	if err := items.Update(ctx, "alice", nil, it.ID+100, service.ItemInput{ID: 1, Name: "b"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing row: error = %v, want ErrNotFound", err)
	}
	if err := items.Update(ctx, "alice", nil, it.ID, service.ItemInput{ID: it.ID + 1, Name: "b"}); !errors.Is(err, domain.ErrIDMismatch) {
		t.Errorf("id mismatch: error = %v, want ErrIDMismatch", err)
	}
	if err := items.Update(ctx, "alice", nil, it.ID, service.ItemInput{Name: " "}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("blank name: error = %v, want ErrInvalidInput", err)
	}
	if _, err := items.Create(ctx, "alice", nil, service.ItemInput{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Create(blank) error = %v, want ErrInvalidInput", err)
	}
}

func TestItemDeleteTwice(t *testing.T) {
	ctx := context.Background()
	_, items := newTodoServices(t)
	it, _ := items.Create(ctx, "alice", nil, service.ItemInput{Name: "a"})

	if err := items.Delete(ctx, "bob", nil, it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete() by bob error = %v, want ErrNotFound", err)
	}
	if err := items.Delete(ctx, "alice", nil, it.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := items.Delete(ctx, "alice", nil, it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestListDeleteRemovesItems(t *testing.T) {
	ctx := context.Background()
	lists, items := newTodoServices(t)
	l, _ := lists.Create(ctx, "alice", "L")
	it, _ := items.Create(ctx, "alice", &l.ID, service.ItemInput{Name: "Milk"})

	if err := lists.Delete(ctx, "alice", l.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := items.Get(ctx, "alice", nil, it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("item survived its list: error = %v", err)
	}
	if _, err := items.List(ctx, "alice", &l.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("List() of deleted list error = %v, want ErrNotFound", err)
	}
}
