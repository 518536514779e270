package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/photoshare/config"
	_ "github.com/d60-Lab/photoshare/docs"
	"github.com/d60-Lab/photoshare/internal/api/handler"
	"github.com/d60-Lab/photoshare/internal/api/middleware"
	"github.com/d60-Lab/photoshare/internal/service"
	"github.com/d60-Lab/photoshare/pkg/token"
)

// NewRouter 组装中间件与路由
func NewRouter(cfg *config.Config, h *handler.Handler, codec *token.Codec) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Otel.Endpoint != "" {
		r.Use(otelgin.Middleware("photoshare"))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static(cfg.Upload.BaseURL, cfg.Upload.Dir)

	// 开放端点
	auth := r.Group("/auth", middleware.RateLimit(cfg.Rate.RPS, cfg.Rate.Burst))
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
	r.POST("/admin/setup", h.AdminSetup)
	r.GET("/users/:id", h.GetUser)

	// 需要会话令牌
	authed := r.Group("", middleware.Auth(codec))
	{
		authed.PUT("/profile/update", h.UpdateProfile)
		authed.GET("/profile/:username", h.Profile)
		authed.POST("/posts", h.CreatePost)
		authed.GET("/posts", h.ListPosts)
		authed.POST("/posts/:id/like", h.ToggleLike)
		authed.DELETE("/posts/:id", h.DeletePost)
		authed.GET("/users", h.ListUsers)
		authed.POST("/users/:id/follow", h.ToggleFollow)
		authed.GET("/search", h.Search)
		authed.POST("/upload", h.Upload)

		// 管理端
		admin := authed.Group("/admin", middleware.Admin())
		{
			admin.GET("/users", h.AdminListUsers)
			admin.DELETE("/users/:id", h.AdminDeleteUser)
			admin.GET("/posts", h.AdminListPosts)
			admin.DELETE("/posts/:id", h.AdminDeletePost)
		}
	}

	return r
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return service.UsernameValid(fl.Field().String())
		})
	}
}
