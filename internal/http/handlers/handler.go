package handlers

import (
	"net/http"

	"chaotic_backend/internal/domain"
	"chaotic_backend/internal/repository"
	"chaotic_backend/internal/service"
	"chaotic_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB            *pgxpool.Pool
	Store         *service.StoreService
	Progression   *service.ProgressionService
	LedgerRepo    *repository.LedgerRepository
	InventoryRepo *repository.InventoryRepository
	Hub           *ws.Hub
}

func NewHandler(db *pgxpool.Pool, packs []domain.PackDefinition, hub *ws.Hub) *Handler {
	return &Handler{
		DB:            db,
		Store:         service.NewStoreService(db, packs),
		Progression:   service.NewProgressionService(db),
		LedgerRepo:    repository.NewLedgerRepository(db),
		InventoryRepo: repository.NewInventoryRepository(db),
		Hub:           hub,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
}
