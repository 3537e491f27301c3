package routes

import (
	"time"

	"github.com/campusfound/lostfound-backend/internal/config"
	"github.com/campusfound/lostfound-backend/internal/handlers"
	"github.com/campusfound/lostfound-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	categoryHandler *handlers.CategoryHandler,
	reportHandler *handlers.ReportHandler,
	claimHandler *handlers.ClaimHandler,
	notificationHandler *handlers.NotificationHandler,
	uploadHandler *handlers.UploadHandler,
	realtimeHandler *handlers.RealtimeHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Session management (JWT required)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Put("/auth/profile", middleware.JWTProtected(cfg), authHandler.UpdateProfile)

	// Public browsing
	api.Get("/categories", categoryHandler.List)
	api.Get("/reports", reportHandler.List)
	api.Get("/reports/:id<int>", reportHandler.Get)

	// Reports (protected)
	api.Post("/reports", middleware.JWTProtected(cfg), reportHandler.Create)
	api.Get("/reports/my/list", middleware.JWTProtected(cfg), reportHandler.ListMine)
	api.Put("/reports/:id<int>/status", middleware.JWTProtected(cfg), reportHandler.UpdateStatus)
	api.Put("/reports/:id<int>/image", middleware.JWTProtected(cfg), reportHandler.SetImage)

	// Claims (protected)
	api.Post("/claims", middleware.JWTProtected(cfg), claimHandler.Create)
	api.Get("/claims/my", middleware.JWTProtected(cfg), claimHandler.ListMine)
	api.Get("/claims/incoming", middleware.JWTProtected(cfg), claimHandler.ListIncoming)
	api.Put("/claims/:id<int>/decision", middleware.JWTProtected(cfg), claimHandler.Decide)

	// Notifications (protected)
	api.Get("/notifications", middleware.JWTProtected(cfg), notificationHandler.List)
	api.Put("/notifications/:id/read", middleware.JWTProtected(cfg), notificationHandler.MarkRead)

	// Image upload (protected)
	api.Post("/uploads/image", middleware.JWTProtected(cfg), uploadHandler.UploadImage)

	// Realtime change feed (protected, websocket)
	api.Get("/ws", middleware.JWTProtected(cfg), realtimeHandler.Upgrade, realtimeHandler.Stream())

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/claims", claimHandler.ListAll)
	admin.Get("/reports", reportHandler.List)
	admin.Put("/reports/:id<int>/status", reportHandler.UpdateStatus)
}
