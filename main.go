package main

import (
	"net/http"
	"os"

	"blog-api/config"
	"blog-api/handlers"
	"blog-api/middleware"
	"blog-api/repositories"
	"blog-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	// Initialize database
	db := config.InitDB()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, articleRepo)
	tagService := services.NewTagService(tagRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, log)
	defer notificationService.Close()
	articleService := services.NewArticleService(articleRepo, userRepo, tagService, notificationService)
	commentService := services.NewCommentService(commentRepo, articleRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(userService)
	articleHandler := handlers.NewArticleHandler(articleService)
	commentHandler := handlers.NewCommentHandler(commentService)
	tagHandler := handlers.NewTagHandler(tagService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public reads, viewer-aware when a token is present
		public := v1.Group("/")
		public.Use(middleware.OptionalAuth())
		{
			public.GET("/articles", articleHandler.GetArticles)
			public.GET("/articles/:slug", articleHandler.GetArticle)
			public.GET("/articles/:slug/comments", commentHandler.GetComments)
			public.GET("/profiles/:username", profileHandler.GetProfile)
			public.GET("/profiles/:username/articles", articleHandler.GetArticlesByAuthor)
			public.GET("/tags", tagHandler.GetTags)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)

			// Articles
			articles := protected.Group("/articles")
			{
				articles.POST("", articleHandler.CreateArticle)
				articles.GET("/feed", articleHandler.GetFeed)
				articles.PUT("/:slug", articleHandler.UpdateArticle)
				articles.DELETE("/:slug", articleHandler.DeleteArticle)
				articles.POST("/:slug/favorite", articleHandler.FavoriteArticle)
				articles.DELETE("/:slug/favorite", articleHandler.UnfavoriteArticle)
				articles.POST("/:slug/comments", commentHandler.CreateComment)
				articles.PUT("/:slug/approve", middleware.RequireRole("ADMIN"), articleHandler.ApproveArticle)
				articles.PUT("/:slug/reject", middleware.RequireRole("ADMIN"), articleHandler.RejectArticle)
			}

			// Comments
			protected.DELETE("/comments/:id", commentHandler.DeleteComment)

			// Follows
			protected.POST("/profiles/:username/follow", profileHandler.Follow)
			protected.DELETE("/profiles/:username/follow", profileHandler.Unfollow)

			// Notifications
			protected.GET("/notifications", notificationHandler.GetNotifications)
			protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("Server starting")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
