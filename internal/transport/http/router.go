package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aliasgate/backend/internal/health"
	"aliasgate/backend/internal/middleware"
	"aliasgate/backend/internal/monitoring"
)

// maxRequestBody 管理接口请求体上限，只承载小 JSON
const maxRequestBody = 64 * 1024

// RouterOptions 路由装配参数。
type RouterOptions struct {
	Handler        *AliasHandler
	Auth           *middleware.SecretAuth
	Metrics        *monitoring.Metrics
	Health         *health.HealthChecker
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter 创建并装配 HTTP 路由。
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryHandler(opts.Logger))
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(maxRequestBody))
	router.Use(middleware.Metrics(opts.Metrics))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authentication"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) == 1 && opts.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		code := http.StatusOK
		if !opts.Health.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, opts.Health.CheckHealth())
	})
	router.GET("/health/live", gin.WrapH(opts.Health.LiveHandler()))
	router.GET("/health/ready", gin.WrapH(opts.Health.ReadyHandler()))
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	api := router.Group("/api", opts.Auth.RequireSecret())
	{
		api.GET("/api_key", opts.Handler.APIKey)
		api.GET("/user_info", opts.Handler.UserInfo)
		api.GET("/mailboxes", opts.Handler.Mailboxes)
		api.GET("/v4/alias/options", opts.Handler.Options)
		api.GET("/v2/aliases", opts.Handler.List)
		api.POST("/alias/random/new", opts.Handler.CreateRandom)
		api.POST("/v2/alias/custom/new", opts.Handler.CreateCustom)
		api.DELETE("/aliases/*address", opts.Handler.Delete)
	}

	// 未知路径也先过鉴权，未授权的探测统一得到 401
	router.NoRoute(opts.Auth.RequireSecret(), func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})

	return router
}
