package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-todo-api/internal/service"
	"go-gin-todo-api/internal/transport/http/ez"
)

// ItemHandler serves items under a list (/todoitems/:toDoListId) and the
// flat owner-wide shape (/items).
type ItemHandler struct {
	svc *service.ItemService
	log *zap.Logger
}

func NewItemHandler(svc *service.ItemService, l *zap.Logger) *ItemHandler {
	return &ItemHandler{svc: svc, log: l}
}

func (h *ItemHandler) Priority() int { return 20 }

func (h *ItemHandler) MountAPI(api *gin.RouterGroup) {
	h.mount(ez.New(api.Group("/todoitems/:toDoListId"), h.log), nestedList)
	h.mount(ez.New(api.Group("/items"), h.log), flatList)
}

type listResolver func(c *gin.Context) (*uint64, error)

func nestedList(c *gin.Context) (*uint64, error) {
	id, err := ez.ParamID(c, "toDoListId")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func flatList(*gin.Context) (*uint64, error) { return nil, nil }

func (h *ItemHandler) mount(e ez.Group, listOf listResolver) {
	ez.RegisterAction(e, ez.Action[struct{}, []ItemDTO]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who ez.Caller, _ *struct{}) ([]ItemDTO, error) {
			listID, err := listOf(c)
			if err != nil {
				return nil, err
			}
			items, err := h.svc.List(c.Request.Context(), who.UserID, listID)
			if err != nil {
				return nil, err
			}
			out := make([]ItemDTO, 0, len(items))
			for i := range items {
				out = append(out, itemToDTO(&items[i]))
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, ItemDTO]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who ez.Caller, _ *struct{}) (ItemDTO, error) {
			listID, id, err := itemTarget(c, listOf)
			if err != nil {
				return ItemDTO{}, err
			}
			it, err := h.svc.Get(c.Request.Context(), who.UserID, listID, id)
			if err != nil {
				return ItemDTO{}, err
			}
			return itemToDTO(it), nil
		},
	})

	ez.RegisterAction(e, ez.Action[itemIn, ItemDTO]{
		Method:   http.MethodPost,
		Path:     "",
		Binder:   ez.BindJSON,
		Auth:     true,
		Status:   http.StatusCreated,
		Location: func(c *gin.Context, out ItemDTO) string { return location(c, out.ID) },
		Handler: func(c *gin.Context, who ez.Caller, in *itemIn) (ItemDTO, error) {
			listID, err := listOf(c)
			if err != nil {
				return ItemDTO{}, err
			}
			it, err := h.svc.Create(c.Request.Context(), who.UserID, listID,
				service.ItemInput{Name: in.Name, IsComplete: in.IsComplete})
			if err != nil {
				return ItemDTO{}, err
			}
			return itemToDTO(it), nil
		},
	})

	ez.RegisterAction(e, ez.Action[itemUpdateIn, struct{}]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, who ez.Caller, in *itemUpdateIn) (struct{}, error) {
			listID, id, err := itemTarget(c, listOf)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.svc.Update(c.Request.Context(), who.UserID, listID, id,
				service.ItemInput{ID: in.ID, Name: in.Name, IsComplete: in.IsComplete})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, who ez.Caller, _ *struct{}) (struct{}, error) {
			listID, id, err := itemTarget(c, listOf)
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.svc.Delete(c.Request.Context(), who.UserID, listID, id)
		},
	})
}

func itemTarget(c *gin.Context, listOf listResolver) (*uint64, uint64, error) {
	listID, err := listOf(c)
	if err != nil {
		return nil, 0, err
	}
	id, err := ez.ParamID(c, "id")
	if err != nil {
		return nil, 0, err
	}
	return listID, id, nil
}
