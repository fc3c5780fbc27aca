package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/seox/internal/config"
	"github.com/seox/internal/handler"
	"github.com/seox/internal/middleware"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	// 配置会话中间件；对外地址走 https 时会话 cookie 标记 Secure
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.SiteBaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("seox_session", store))

	api := handler.NewAPI(gdb)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/login", api.Login)
	r.POST("/logout", api.Logout)

	// 需要认证的业务路由
	auth := r.Group("")
	auth.Use(api.AuthRequired())
	{
		auth.GET("/session", api.Session)

		auth.GET("/blog-posts", api.GetPosts)
		auth.POST("/blog-posts", api.CreatePost)
		auth.GET("/blog-posts/:id", api.GetPost)
		auth.PUT("/blog-posts/:id", api.UpdatePost)
		auth.DELETE("/blog-posts/:id", api.DeletePost)

		auth.PATCH("/blog-posts/:id/submit", api.SubmitPost)
		auth.PATCH("/blog-posts/:id/review", api.ReviewPost)
		auth.PATCH("/blog-posts/:id/publish", api.PublishPost)
		auth.PATCH("/blog-posts/:id/discard", api.DiscardPost)
		auth.PATCH("/blog-posts/:id/archive", api.ArchivePost)

		auth.GET("/blog-posts/:id/notes", api.GetNotes)
		auth.POST("/blog-posts/:id/notes", api.AddNote)
		auth.GET("/blog-posts/:id/preview", api.PreviewPost)

		auth.GET("/seo-accounts", api.GetAccounts)
		auth.POST("/seo-accounts", api.CreateAccount)
		auth.GET("/seo-accounts/:id", api.GetAccount)
		auth.PUT("/seo-accounts/:id", api.UpdateAccount)
		auth.DELETE("/seo-accounts/:id", api.DeleteAccount)

		auth.GET("/seo-accounts/:id/backlinks", api.GetBacklinks)
		auth.POST("/seo-accounts/:id/backlinks", api.CreateBacklink)
		auth.PUT("/backlinks/:id", api.UpdateBacklink)
		auth.DELETE("/backlinks/:id", api.DeleteBacklink)

		auth.GET("/dashboard/stats", api.GetDashboard)

		auth.GET("/users", api.GetUsers)
		auth.POST("/users", api.CreateUser)
		auth.GET("/users/:id", api.GetUser)
	}

	return r
}
