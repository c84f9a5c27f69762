// Package ez registers typed handlers ("actions") on gin groups: bind the
// input, resolve the caller, run the handler, map errors to statuses.
package ez

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "go-gin-todo-api/internal/transport/http/middleware"
	resp "go-gin-todo-api/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON Binder = "json" // 从 JSON 绑定
	BindNone Binder = "none" // 不绑定，自己从 c.Param 取
)

// AErr is a handler-originated error that already knows its status.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }

// Caller is the authenticated identity handed to actions. UserID is empty on
// public routes.
type Caller struct {
	UserID string
	Email  string
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // "GET" | "POST" | "PUT" | "DELETE"
	Path   string
	Binder Binder
	Auth   bool // 是否要求登录（检查 userId）
	// Status is the success code; 0 means 200. 204 writes no body.
	Status int
	// Location, when set, fills the Location header of a successful reply.
	Location func(c *gin.Context, out O) string
	Handler  func(c *gin.Context, who Caller, in *I) (O, error)
}

// Group bundles a router group with the logger used for unexpected errors.
type Group struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) Group {
	if l == nil {
		l = zap.NewNop()
	}
	return Group{g: g, log: l}
}

func RegisterAction[I any, O any](e Group, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权
		who := Caller{UserID: c.GetString(mdw.KeyUserID), Email: c.GetString(mdw.KeyEmail)}
		if a.Auth && who.UserID == "" {
			abort(c, resp.CodeUnauthorized, "unauthorized")
			return
		}

		// 2) 绑定入参
		var in I
		if a.Binder == BindJSON {
			if err := c.ShouldBindJSON(&in); err != nil {
				abort(c, resp.CodeBadRequest, resp.BindMessage(err))
				return
			}
		}

		// 3) 执行
		out, err := a.Handler(c, who, &in)

		// 4) 统一错误映射
		if err != nil {
			var ae *AErr
			if errors.As(err, &ae) {
				abort(c, ae.Code, ae.Error())
				return
			}
			code, msg := resp.FromError(err)
			if code >= resp.CodeServerError {
				_ = c.Error(err)
				e.log.Error("action failed",
					zap.String("rid", c.GetString(mdw.KeyRequestID)),
					zap.String("path", c.FullPath()),
					zap.Error(err))
			}
			abort(c, code, msg)
			return
		}

		if a.Location != nil {
			c.Header("Location", a.Location(c, out))
		}
		switch a.Status {
		case http.StatusNoContent:
			c.Status(http.StatusNoContent)
		case 0:
			c.JSON(http.StatusOK, out)
		default:
			c.JSON(a.Status, out)
		}
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, resp.Error(code, msg))
}

// ParamID reads a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, BadRequest("invalid " + name)
	}
	return v, nil
}
