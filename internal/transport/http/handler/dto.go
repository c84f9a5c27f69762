package handler

import "go-gin-todo-api/internal/domain"

// 登录只校验字段存在，格式错误也统一返回 invalid credentials
type credentialsIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerIn struct {
	Email    string `json:"email"    binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type tokenOut struct {
	Token string `json:"token"`
}

type meOut struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type listIn struct {
	ID   uint64 `json:"id"`
	Name string `json:"name" binding:"required,max=255"`
}

// listUpdateIn 不做绑定校验：名称在查到行之后才检查
type listUpdateIn struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ListDTO never carries the owner.
type ListDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type itemIn struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name" binding:"required,max=255"`
	IsComplete bool   `json:"isComplete"`
}

type itemUpdateIn struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	IsComplete bool   `json:"isComplete"`
}

type ItemDTO struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	IsComplete bool    `json:"isComplete"`
	ToDoListID *uint64 `json:"toDoListId,omitempty"`
}

func listToDTO(l *domain.ToDoList) ListDTO { return ListDTO{ID: l.ID, Name: l.Name} }

func itemToDTO(it *domain.ToDoItem) ItemDTO {
	return ItemDTO{ID: it.ID, Name: it.Name, IsComplete: it.IsComplete, ToDoListID: it.ListID}
}
