package core

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps carries the collaborators wired into the HTTP routes.
type RouterDeps struct {
	Logger   *slog.Logger
	Strategy Strategy
	Users    UserRepository
	Tasks    TaskRepository
	DB       Pinger
	Redis    RedisClientRaw // optional
}

// NewRouter constructs the Gin engine with routes wired. The auth strategy is
// fixed here for every protected route.
func NewRouter(cfg Config, deps RouterDeps) *gin.Engine {
	startedAt := time.Now()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware: request id -> access log -> metrics -> error pipeline -> panic recovery -> origin check
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandler(logger))
	r.Use(Recovery())
	r.Use(OriginRefererMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		st := CollectSystemStatus(c.Request.Context(), deps.DB, deps.Redis, startedAt)
		code := http.StatusOK
		if st.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, st)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userHandler := NewUserHandler(deps.Users)
	taskHandler := NewUserTaskHandler(deps.Tasks)

	api := r.Group("/api/v1")
	api.Use(Authorize(deps.Strategy, logger))
	{
		api.GET("/users/me", userHandler.Me)
		api.GET("/users/:userID/tasks", RequirePermission(PermissionTaskRead), taskHandler.ReadUserTasks)

		admin := api.Group("/admin")
		admin.GET("/users", RequirePermission(PermissionUserList), userHandler.List)
	}

	return r
}
