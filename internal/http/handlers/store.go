package handlers

import (
	"errors"
	"net/http"
	"time"

	"chaotic_backend/internal/domain"
	"chaotic_backend/internal/http/middleware"
	"chaotic_backend/internal/logger"
	"chaotic_backend/internal/service"
	"chaotic_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

// ListPacks returns the pack catalog annotated with the caller's remaining
// daily/weekly allowance and current wallet.
func (h *Handler) ListPacks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	packs, wallet, err := h.Store.ListPacksForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("list packs failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"packs":  packs,
		"wallet": wallet,
	})
}

// Purchase runs the pack purchase saga and reveals the drawn cards.
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}
	packID := c.Param("id")

	res, err := h.Store.PurchasePack(c.Request.Context(), userID, packID)
	if err != nil {
		h.purchaseError(c, userID, packID, err)
		return
	}

	middleware.PackPurchases.WithLabelValues(packID, "success").Inc()
	h.broadcastOpening(userID, packID, res)

	c.JSON(http.StatusOK, res)
}

func (h *Handler) purchaseError(c *gin.Context, userID int64, packID string, err error) {
	var refunded *service.ChargedAndRefundedError
	var compFailed *service.CompensationFailedError

	switch {
	case errors.Is(err, service.ErrUnknownPack):
		middleware.PackPurchases.WithLabelValues(packID, "unknown_pack").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown pack"})
	case errors.Is(err, service.ErrPurchaseLimitExceeded):
		middleware.PackPurchases.WithLabelValues(packID, "limit_exceeded").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "purchase limit reached for this pack"})
	case errors.Is(err, service.ErrInsufficientFunds):
		middleware.PackPurchases.WithLabelValues(packID, "insufficient_funds").Inc()
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient funds"})
	case errors.As(err, &compFailed):
		middleware.PackPurchases.WithLabelValues(packID, "refund_failed").Inc()
		logger.Error("purchase failed and refund failed", "user_id", userID, "pack_id", packID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed, refund pending"})
	case errors.As(err, &refunded):
		middleware.PackPurchases.WithLabelValues(packID, "refunded").Inc()
		middleware.PackRefunds.WithLabelValues(packID).Inc()
		c.JSON(http.StatusConflict, gin.H{"error": "purchase failed, charge refunded"})
	default:
		middleware.PackPurchases.WithLabelValues(packID, "error").Inc()
		logger.Error("purchase failed", "user_id", userID, "pack_id", packID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
	}
}

func (h *Handler) broadcastOpening(userID int64, packID string, res *service.PurchaseResult) {
	if h.Hub == nil {
		return
	}
	packName := packID
	for _, p := range h.Store.Packs() {
		if p.ID == packID {
			packName = p.Name
			break
		}
	}
	rarities := make([]domain.Rarity, 0, len(res.Cards))
	for _, card := range res.Cards {
		rarities = append(rarities, card.Rarity)
	}
	h.Hub.BroadcastOpening(ws.OpeningEvent{
		UserID:   userID,
		PackID:   packID,
		PackName: packName,
		Rarities: rarities,
		OpenedAt: time.Now().UTC(),
	})
}

type sellRequest struct {
	Items []service.SellItem `json:"items" binding:"required,min=1,dive"`
}

// Sell discards cards from the caller's collection for their fixed coin value.
func (h *Handler) Sell(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	res, err := h.Store.SellCards(c.Request.Context(), userID, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFoundInInventory):
			c.JSON(http.StatusNotFound, gin.H{"error": "card not in collection"})
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		default:
			logger.Error("sell failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}

	middleware.CardsSold.Add(float64(res.SoldCount))
	c.JSON(http.StatusOK, res)
}
