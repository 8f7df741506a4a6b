package router

import (
	"github.com/DaniilYevlanov/serverwok/internal/auth"
	"github.com/DaniilYevlanov/serverwok/internal/config"
	"github.com/DaniilYevlanov/serverwok/internal/game"
	"github.com/DaniilYevlanov/serverwok/internal/handler"
	"github.com/DaniilYevlanov/serverwok/internal/middleware"
	"github.com/DaniilYevlanov/serverwok/internal/progress"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, templates and static resources.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// static files and templates (paths may be empty in tests)
	if cfg.Web.StaticDir != "" {
		r.Static("/static", cfg.Web.StaticDir)
	}
	if cfg.Web.TemplateGlob != "" {
		r.LoadHTMLGlob(cfg.Web.TemplateGlob)
	}

	authSvc := auth.NewService(db, cfg.JWT, cfg.Security.BcryptCost)
	engine := progress.NewEngine(db)

	pages := handler.NewPageHandler(engine)
	authHandler := handler.NewAuthHandler(authSvc, cfg.JWT.ExpireHours)
	levelHandler := handler.NewLevelHandler(engine)
	gameHandler := handler.NewGameHandler(game.New())
	exportHandler := handler.NewExportHandler(engine)

	// ====== Pages ======
	r.GET("/", pages.Index)
	r.GET("/register", pages.RegisterPage)
	r.GET("/login", pages.LoginPage)
	r.GET("/logout", authHandler.Logout)

	// 需要登录的页面：失败跳转到 /login
	gated := r.Group("", middleware.Auth(cfg.JWT.Secret, db, true))
	gated.GET("/profile", pages.Profile)
	gated.GET("/game", pages.Game)

	// ====== API ======
	api := r.Group("/api")

	// 登录/注册接口（不需要鉴权）
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// 需要登录才能访问的接口：失败返回 401
	protected := api.Group("")
	protected.Use(
		middleware.Auth(cfg.JWT.Secret, db, false),
		middleware.Audit(db),
	)

	protected.GET("/user-levels", levelHandler.UserLevels)
	protected.POST("/complete-level", levelHandler.CompleteLevel)
	protected.POST("/reset-levels", levelHandler.ResetLevels)
	protected.GET("/problem", gameHandler.Problem)
	protected.GET("/export/levels.xlsx", exportHandler.LevelsXLSX)

	return r
}
