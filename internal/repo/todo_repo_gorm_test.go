package repo_test

import (
	"context"
	"errors"
	"testing"

	"go-gin-todo-api/internal/core/database/dbtest"
	"go-gin-todo-api/internal/domain"
	"go-gin-todo-api/internal/repo"
)

func ptr(v uint64) *uint64 { return &v }

func TestListRepoOwnerScoping(t *testing.T) {
	ctx := context.Background()
	lists := repo.NewListRepo(dbtest.New(t))

	mine := &domain.ToDoList{Name: "Groceries"}
	if err := lists.Create(ctx, "alice", mine); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if mine.ID == 0 || mine.OwnerID != "alice" || mine.Version != 1 {
		t.Fatalf("Create() left list as %+v", mine)
	}
	if err := lists.Create(ctx, "bob", &domain.ToDoList{Name: "Work"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := lists.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Groceries" {
		t.Errorf("ListByOwner(alice) = %+v", got)
	}

	if _, err := lists.Get(ctx, "bob", mine.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() by other owner error = %v, want ErrNotFound", err)
	}
	if ok, _ := lists.Exists(ctx, "bob", mine.ID); ok {
		t.Error("Exists() by other owner = true")
	}
	if err := lists.Delete(ctx, "bob", mine.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete() by other owner error = %v, want ErrNotFound", err)
	}
	foreign := *mine
	foreign.Name = "hijacked"
	if err := lists.Update(ctx, "bob", &foreign); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Update() by other owner error = %v, want ErrConflict", err)
	}
	l, err := lists.Get(ctx, "alice", mine.ID)
	if err != nil || l.Name != "Groceries" {
		t.Errorf("Get() after foreign writes = %+v, %v", l, err)
	}
}

func TestListRepoOptimisticUpdate(t *testing.T) {
	ctx := context.Background()
	lists := repo.NewListRepo(dbtest.New(t))
	l := &domain.ToDoList{Name: "A"}
	if err := lists.Create(ctx, "alice", l); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 两个请求读到同一版本
	first, _ := lists.Get(ctx, "alice", l.ID)
	second, _ := lists.Get(ctx, "alice", l.ID)

	first.Name = "B"
	if err := lists.Update(ctx, "alice", first); err != nil {
		t.Fatalf("first Update() error = %v", err)
	}
	if first.Version != 2 {
		t.Errorf("version after update = %d, want 2", first.Version)
	}
	second.Name = "C"
	if err := lists.Update(ctx, "alice", second); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("stale Update() error = %v, want ErrConflict", err)
	}
	got, _ := lists.Get(ctx, "alice", l.ID)
	if got.Name != "B" {
		t.Errorf("name = %q, want B (first writer wins)", got.Name)
	}
}

func TestListRepoDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	lists, items := repo.NewListRepo(db), repo.NewItemRepo(db)

	full := &domain.ToDoList{Name: "full"}
	empty := &domain.ToDoList{Name: "empty"}
	_ = lists.Create(ctx, "alice", full)
	_ = lists.Create(ctx, "alice", empty)
	for _, n := range []string{"Milk", "Eggs"} {
		if err := items.Create(ctx, "alice", &domain.ToDoItem{Name: n, ListID: ptr(full.ID)}); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}
	loose := &domain.ToDoItem{Name: "unlisted"}
	_ = items.Create(ctx, "alice", loose)

	if err := lists.Delete(ctx, "alice", empty.ID); err != nil {
		t.Fatalf("Delete(empty) error = %v", err)
	}
	if err := lists.Delete(ctx, "alice", full.ID); err != nil {
		t.Fatalf("Delete(full) error = %v", err)
	}
	if err := lists.Delete(ctx, "alice", full.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	left, err := items.List(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(left) != 1 || left[0].ID != loose.ID {
		t.Errorf("items after cascade = %+v, want only the unlisted item", left)
	}
}

func TestItemRepoNestedScoping(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	lists, items := repo.NewListRepo(db), repo.NewItemRepo(db)

	a := &domain.ToDoList{Name: "a"}
	b := &domain.ToDoList{Name: "b"}
	_ = lists.Create(ctx, "alice", a)
	_ = lists.Create(ctx, "alice", b)

	it := &domain.ToDoItem{Name: "Milk", ListID: ptr(a.ID)}
	if err := items.Create(ctx, "alice", it); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := items.Get(ctx, "alice", ptr(a.ID), it.ID); err != nil {
		t.Errorf("Get() in own list error = %v", err)
	}
	if _, err := items.Get(ctx, "alice", ptr(b.ID), it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() through another list error = %v, want ErrNotFound", err)
	}
	if _, err := items.Get(ctx, "alice", nil, it.ID); err != nil {
		t.Errorf("flat Get() error = %v", err)
	}
	if _, err := items.Get(ctx, "bob", nil, it.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() by other owner error = %v, want ErrNotFound", err)
	}
	if _, err := items.List(ctx, "bob", ptr(a.ID)); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("List() of foreign list error = %v, want ErrNotFound", err)
	}
	got, err := items.List(ctx, "alice", ptr(b.ID))
	if err != nil || len(got) != 0 {
		t.Errorf("List() of empty list = %+v, %v", got, err)
	}
}

func TestItemRepoCreateRequiresOwnedParent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	lists, items := repo.NewListRepo(db), repo.NewItemRepo(db)

	bobs := &domain.ToDoList{Name: "bob's"}
	_ = lists.Create(ctx, "bob", bobs)

	for name, listID := range map[string]uint64{"missing": 999, "foreign": bobs.ID} {
		t.Run(name, func(t *testing.T) {
			err := items.Create(ctx, "alice", &domain.ToDoItem{Name: "x", ListID: ptr(listID)})
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("Create() error = %v, want ErrNotFound", err)
			}
		})
	}
	all, _ := items.List(ctx, "alice", nil)
	if len(all) != 0 {
		t.Errorf("rows written despite missing parent: %+v", all)
	}
}

func TestItemRepoOptimisticUpdate(t *testing.T) {
	ctx := context.Background()
	items := repo.NewItemRepo(dbtest.New(t))
	it := &domain.ToDoItem{Name: "Milk"}
	_ = items.Create(ctx, "alice", it)

	first, _ := items.Get(ctx, "alice", nil, it.ID)
	second, _ := items.Get(ctx, "alice", nil, it.ID)
	first.IsComplete = true
	if err := items.Update(ctx, "alice", nil, first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	second.Name = "Oat milk"
	if err := items.Update(ctx, "alice", nil, second); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("stale Update() error = %v, want ErrConflict", err)
	}
	got, _ := items.Get(ctx, "alice", nil, it.ID)
	if got.Name != "Milk" || !got.IsComplete {
		t.Errorf("item = %+v", got)
	}

	if err := items.Delete(ctx, "alice", nil, it.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := items.Exists(ctx, "alice", nil, it.ID); ok {
		t.Error("Exists() after delete = true")
	}
}
