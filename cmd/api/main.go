package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/learnhubhq/learnhub/internal/auth"
	"github.com/learnhubhq/learnhub/internal/config"
	"github.com/learnhubhq/learnhub/internal/db"
	"github.com/learnhubhq/learnhub/internal/mailer"
	"github.com/learnhubhq/learnhub/internal/media"
	"github.com/learnhubhq/learnhub/internal/metrics"
	appmw "github.com/learnhubhq/learnhub/internal/middleware"
	"github.com/learnhubhq/learnhub/internal/user"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	mail, err := mailer.New(cfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	uploader, err := media.NewS3(ctx, cfg)
	if err != nil {
		log.Fatalf("media: %v", err)
	}

	store := user.NewPostgresStore(pool)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	handler := auth.NewHandler(store, tokens, mail, uploader, cfg)
	collector := metrics.NewCollector()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appmw.ErrorHandler
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(collector.Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})
	e.GET("/metrics", collector.Handler())

	requireAuth := appmw.RequireAuth(tokens, store)

	// Public routes, rate limited per IP to protect against credential abuse.
	u := e.Group("/api/v1/user")
	u.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))
	u.POST("/register", handler.Register)
	u.POST("/login", handler.Login)
	u.GET("/logout", handler.Logout)
	u.POST("/reset", handler.ForgotPassword)
	u.POST("/reset/:resetToken", handler.ResetPassword)

	// Authenticated routes.
	u.GET("/me", handler.Me, requireAuth)
	u.POST("/change-password", handler.ChangePassword, requireAuth)
	u.POST("/update/:id", handler.UpdateUser, requireAuth)

	// Admin routes.
	u.GET("/admin/users", handler.ListUsers, requireAuth, appmw.RequireRoles(user.RoleAdmin))

	log.Printf("API server listening on :%s", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
