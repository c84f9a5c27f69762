package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-todo-api/internal/core/auth"
	"go-gin-todo-api/internal/core/cache"
	"go-gin-todo-api/internal/core/server"
	"go-gin-todo-api/internal/repo"
	"go-gin-todo-api/internal/service"
	"go-gin-todo-api/internal/transport/http/handler"
	mdw "go-gin-todo-api/internal/transport/http/middleware"
	resp "go-gin-todo-api/internal/transport/http/response"
)

// Deps are the collaborators of the API engine. Cache may be nil.
type Deps struct {
	DB      *gorm.DB
	JWT     *auth.JWTer
	Cache   *cache.Cache
	ListTTL time.Duration
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := server.NewRouter(l)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1})) })
	r.GET("/metrics", mdw.MetricsHandler())

	// 依赖
	accounts := service.NewAccountService(repo.NewUserRepo(d.DB), d.JWT, l)
	lists := service.NewListService(repo.NewListRepo(d.DB), d.Cache, d.ListTTL, l)
	items := service.NewItemService(repo.NewItemRepo(d.DB), l)

	// /account：register/login 公共，按 IP 限流；/me 需要登录
	account := r.Group("/account", mdw.RateLimitPerIP(5, 10))
	authAccount := r.Group("/account", mdw.AuthJWT(d.JWT))
	handler.NewAccountHandler(accounts, l).Mount(account, authAccount)

	// /api 下全部需要登录
	api := r.Group("/api")
	api.Use(mdw.AuthJWT(d.JWT))

	var reg Registry
	reg.Register(
		handler.NewItemHandler(items, l),
		handler.NewListHandler(lists, l),
	)
	reg.MountAll(api)

	return r
}
