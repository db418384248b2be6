package main

import (
	"log"
	"os"

	_ "rdq-api/config"
	"rdq-api/database"
	"rdq-api/internal/blacklist"
	authhandlers "rdq-api/internal/handlers/auth"
	rdqhandlers "rdq-api/internal/handlers/rdq"
	userhandlers "rdq-api/internal/handlers/users"
	"rdq-api/internal/middleware"
	"rdq-api/internal/models"
	"rdq-api/internal/notify"
	"rdq-api/internal/rdq"
	"rdq-api/internal/stores"
	"rdq-api/internal/token"
	"rdq-api/internal/user"
	"rdq-api/internal/users"
	"rdq-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger.InitLogger()
	defer logger.Logger.Sync()

	db, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	database.ProcessMigrations(db)

	userStore := &stores.GormUserStore{DB: db}
	rdqStore := &stores.GormRdqStore{DB: db}

	secret := []byte(os.Getenv("JWT_SECRET"))
	hasher := user.BcryptHasher{}
	tokenService := &token.JWTService{Secret: secret}

	refreshTokenStore := &stores.GormRefreshTokenStore{
		DB:           db,
		TokenService: tokenService,
	}

	// Redis is optional; without it logout only revokes the refresh token.
	var bl blacklist.Blacklist
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		bl = blacklist.NewRedisBlacklist(redis.NewClient(opts), "rdq:blacklist")
	}

	notifier := &notify.LogNotifier{Log: logger.Logger}

	rdqService := rdq.NewService(rdqStore, userStore, notifier, logger.Logger)
	userService := users.NewService(userStore, hasher, notifier, logger.Logger)

	auth := authhandlers.NewAuthHandler(
		userStore,
		refreshTokenStore,
		hasher,
		tokenService,
		bl,
		logger.Logger)
	rdqHandler := rdqhandlers.NewRdqHandler(rdqService, logger.Logger)
	userHandler := userhandlers.NewUserHandler(userService, logger.Logger)

	r := gin.Default()
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/refresh", auth.RefreshToken)
	}

	protected := api.Group("/")
	protected.Use(middleware.JWTAuth(tokenService, bl))
	{
		protected.POST("/auth/logout", auth.Logout)
		protected.GET("/me", auth.GetCurrentUser)
		protected.POST("/me/password", userHandler.ChangePassword)

		rdqGroup := protected.Group("/rdq")
		{
			rdqGroup.GET("", rdqHandler.Search)
			rdqGroup.POST("", rdqHandler.Create)
			rdqGroup.GET("/:id", rdqHandler.Get)
			rdqGroup.PUT("/:id", rdqHandler.Update)
			rdqGroup.DELETE("/:id", rdqHandler.Delete)
			rdqGroup.POST("/:id/submit", rdqHandler.Submit)
			rdqGroup.POST("/:id/resubmit", rdqHandler.Resubmit)
		}

		decisions := protected.Group("/rdq")
		decisions.Use(middleware.RequireRole(models.RoleManager))
		{
			decisions.POST("/:id/approve", rdqHandler.Approve)
			decisions.POST("/:id/reject", rdqHandler.Reject)
			decisions.POST("/:id/request-info", rdqHandler.RequestInfo)
		}

		protected.GET("/users/:id", userHandler.Get)
		protected.GET("/team", userHandler.Team)

		admin := protected.Group("/users")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("", userHandler.List)
			admin.POST("", userHandler.Create)
			admin.PUT("/:id", userHandler.Update)
			admin.POST("/:id/activate", userHandler.Activate)
			admin.POST("/:id/deactivate", userHandler.Deactivate)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
