package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-todo-api/internal/service"
	"go-gin-todo-api/internal/transport/http/ez"
)

type ListHandler struct {
	svc *service.ListService
	log *zap.Logger
}

func NewListHandler(svc *service.ListService, l *zap.Logger) *ListHandler {
	return &ListHandler{svc: svc, log: l}
}

func (h *ListHandler) Priority() int { return 10 }

// MountAPI 挂载 /todolists
func (h *ListHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/todolists"), h.log)

	ez.RegisterAction(e, ez.Action[struct{}, []ListDTO]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who ez.Caller, _ *struct{}) ([]ListDTO, error) {
			ls, err := h.svc.List(c.Request.Context(), who.UserID)
			if err != nil {
				return nil, err
			}
			out := make([]ListDTO, 0, len(ls))
			for i := range ls {
				out = append(out, listToDTO(&ls[i]))
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, ListDTO]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who ez.Caller, _ *struct{}) (ListDTO, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return ListDTO{}, err
			}
			l, err := h.svc.Get(c.Request.Context(), who.UserID, id)
			if err != nil {
				return ListDTO{}, err
			}
			return listToDTO(l), nil
		},
	})

	ez.RegisterAction(e, ez.Action[listIn, ListDTO]{
		Method:   http.MethodPost,
		Path:     "",
		Binder:   ez.BindJSON,
		Auth:     true,
		Status:   http.StatusCreated,
		Location: func(c *gin.Context, out ListDTO) string { return location(c, out.ID) },
		Handler: func(c *gin.Context, who ez.Caller, in *listIn) (ListDTO, error) {
			l, err := h.svc.Create(c.Request.Context(), who.UserID, in.Name)
			if err != nil {
				return ListDTO{}, err
			}
			return listToDTO(l), nil
		},
	})

	ez.RegisterAction(e, ez.Action[listUpdateIn, struct{}]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, who ez.Caller, in *listUpdateIn) (struct{}, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.svc.Update(c.Request.Context(), who.UserID, id, service.ListInput{ID: in.ID, Name: in.Name})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, who ez.Caller, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, h.svc.Delete(c.Request.Context(), who.UserID, id)
		},
	})
}

// location 以当前集合路径拼出新资源地址
func location(c *gin.Context, id uint64) string {
	return strings.TrimRight(c.Request.URL.Path, "/") + "/" + strconv.FormatUint(id, 10)
}
