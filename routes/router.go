package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogicum/blogicum/config"
	"github.com/blogicum/blogicum/controllers"
	"github.com/blogicum/blogicum/middleware"
	"github.com/blogicum/blogicum/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// HTTP access log goes to its own rolling file, separate from app logs
	if accessLog, err := utils.NewRollingFileLogger(cfg.GinPath, cfg); err == nil {
		r.Use(utils.Ginzap(accessLog, true))
		r.Use(utils.RecoveryWithZap(accessLog, false))
	} else {
		r.Use(gin.Recovery())
	}

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.Authenticate())

	r.Static("/media", cfg.MediaDir)

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	categoryController := controllers.NewCategoryController(db)
	profileController := controllers.NewProfileController(db)
	mediaController := controllers.NewMediaController()
	pagesController := controllers.NewPagesController()

	// browsing surface, open to anonymous viewers
	r.GET("/", postController.Index)
	r.GET("/posts/:id", postController.GetPost)
	r.GET("/categories", categoryController.ListCategories)
	r.GET("/category/:slug", categoryController.CategoryPosts)
	r.GET("/profile/:username", profileController.GetProfile)

	// auth sub-flows
	auth := r.Group("/auth")
	auth.Use(middleware.RateLimit())
	auth.GET("/login", authController.LoginEntry)
	auth.POST("/login", authController.Login)
	auth.POST("/registration", authController.Register)
	auth.POST("/password_reset", authController.SendResetCode)
	auth.POST("/password_reset/confirm", authController.ResetPassword)
	auth.POST("/logout", middleware.LoginRequired(), authController.Logout)
	auth.POST("/password_change", middleware.LoginRequired(), authController.ChangePassword)
	auth.GET("/me", middleware.AuthRequired(), authController.Me)

	// mutations: anonymous attempts redirect to the login entry point
	mutating := r.Group("")
	mutating.Use(middleware.LoginRequired(), middleware.RateLimit())
	mutating.POST("/posts", postController.CreatePost)
	mutating.POST("/posts/:id/edit", postController.UpdatePost)
	mutating.POST("/posts/:id/delete", postController.DeletePost)
	mutating.POST("/posts/:id/comments", commentController.CreateComment)
	mutating.POST("/posts/:id/comments/:comment_id/edit", commentController.UpdateComment)
	mutating.POST("/posts/:id/comments/:comment_id/delete", commentController.DeleteComment)
	mutating.POST("/profile/edit", profileController.UpdateProfile)
	mutating.POST("/upload", mediaController.UploadImage)

	// error pages, invocable on their own
	r.GET("/403", pagesController.Forbidden)
	r.GET("/404", pagesController.NotFound)
	r.GET("/500", pagesController.ServerError)
	r.NoRoute(pagesController.NotFound)

	return r
}
