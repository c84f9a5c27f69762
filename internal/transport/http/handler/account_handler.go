package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-todo-api/internal/service"
	"go-gin-todo-api/internal/transport/http/ez"
)

type AccountHandler struct {
	svc *service.AccountService
	log *zap.Logger
}

func NewAccountHandler(svc *service.AccountService, l *zap.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, log: l}
}

// Mount registers /register and /login on public and /me on authed.
func (h *AccountHandler) Mount(public, authed *gin.RouterGroup) {
	pub := ez.New(public, h.log)

	ez.RegisterAction(pub, ez.Action[registerIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ ez.Caller, in *registerIn) (tokenOut, error) {
			res, err := h.svc.Register(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: res.Token}, nil
		},
	})

	ez.RegisterAction(pub, ez.Action[credentialsIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ ez.Caller, in *credentialsIn) (tokenOut, error) {
			res, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: res.Token}, nil
		},
	})

	ez.RegisterAction(ez.New(authed, h.log), ez.Action[struct{}, meOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, who ez.Caller, _ *struct{}) (meOut, error) {
			u, err := h.svc.Me(c.Request.Context(), who.UserID)
			if err != nil {
				return meOut{}, err
			}
			return meOut{ID: u.ID, Email: u.Email}, nil
		},
	})
}
