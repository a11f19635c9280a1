package http

import (
	"time"

	"chaotic_backend/internal/config"
	"chaotic_backend/internal/http/handlers"
	"chaotic_backend/internal/http/middleware"
	"chaotic_backend/internal/store"
	"chaotic_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, version string, cfg *config.Config) {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, store.DefaultPacks(), hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks and metrics (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiRateWindow := time.Duration(cfg.APIRateWindowSec) * time.Second
	purchaseWindow := time.Duration(cfg.PurchaseWindowSec) * time.Second

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))

	// Store
	v1.GET("/store/packs", middleware.JWT(), h.ListPacks)
	v1.POST("/store/packs/:id/purchase",
		middleware.JWT(),
		middleware.PurchaseRateLimit(cfg.PurchaseRateLimit, purchaseWindow),
		h.Purchase)
	v1.POST("/cards/sell", middleware.JWT(), h.Sell)

	// Rewards
	v1.POST("/rewards/daily-login", middleware.JWT(), h.DailyLogin)
	v1.POST("/rewards/starter", middleware.JWT(), h.Starter)

	// Profile
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.GET("/me/cards", middleware.JWT(), h.MyCards)
	v1.GET("/me/ledger", middleware.JWT(), h.MyLedger)

	// Pack-opening spectator feed
	r.GET("/ws/feed", h.Feed(hub))
}
