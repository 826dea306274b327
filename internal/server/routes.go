package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dealspy/internal/db"
	"dealspy/internal/handlers"
	"dealspy/internal/middleware"
	"dealspy/internal/notify"
	"dealspy/internal/pricing"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, updater *pricing.Updater, notifier *notify.Notifier) error {
	// Initialize middleware
	var authMiddleware *middleware.AuthMiddleware
	if s.Cfg.OIDCIssuer != "" {
		var err error
		authMiddleware, err = middleware.NewAuthMiddleware(ctx, s.Cfg.OIDCIssuer, s.Cfg.OIDCAudience)
		if err != nil {
			return err
		}
	} else {
		if !s.Cfg.IsDev() {
			log.Fatal("OIDC_ISSUER is required outside development")
		}
		log.Println("OIDC verification disabled; trusting X-Debug-UID (development only)")
		authMiddleware = middleware.NewDevAuthMiddleware()
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(database)
	userHandler := handlers.NewUserHandler(database)
	watchlistHandler := handlers.NewWatchlistHandler(database)
	savedHandler := handlers.NewSaveForLaterHandler(database)
	productHandler := handlers.NewProductHandler(database, updater, notifier)
	healthHandler := handlers.NewHealthHandler(database)

	// Operational endpoints
	s.App.Get("/healthz", healthHandler.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Session bootstrap
	s.App.Post("/auth/verify", authMiddleware.RequireAuth, authHandler.Verify)

	// Profile
	s.App.Get("/profile", authMiddleware.RequireAuth, userHandler.GetProfile)
	s.App.Put("/profile/fcm-token", authMiddleware.RequireAuth, userHandler.UpdateFCMToken)
	s.App.Delete("/profile", authMiddleware.RequireAuth, userHandler.DeleteProfile)

	// Watchlist
	s.App.Get("/watchlist", authMiddleware.RequireAuth, watchlistHandler.List)
	s.App.Post("/watchlist", authMiddleware.RequireAuth, watchlistHandler.Add)
	s.App.Delete("/watchlist/:productName", authMiddleware.RequireAuth, watchlistHandler.Remove)

	// Save for later
	s.App.Get("/saveforlater", authMiddleware.RequireAuth, savedHandler.List)
	s.App.Post("/saveforlater", authMiddleware.RequireAuth, savedHandler.Add)
	s.App.Delete("/saveforlater/:productName", authMiddleware.RequireAuth, savedHandler.Remove)

	// Products. Catalog reads carry no user data and stay public; everything
	// that triggers work requires auth.
	s.App.Get("/products", productHandler.List)
	s.App.Post("/products/update-prices", authMiddleware.RequireAuth, productHandler.UpdateAllPrices)
	s.App.Get("/products/:id", productHandler.Get)
	s.App.Post("/products/:id/refresh", authMiddleware.RequireAuth, productHandler.RefreshPrice)
	s.App.Post("/products/:id/test-notification", authMiddleware.RequireAuth, productHandler.TestNotification)

	return nil
}
