package handlers

import (
	"net/http"

	"chaotic_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// DailyLogin claims the daily login bonus. Idempotent within a UTC day.
func (h *Handler) DailyLogin(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	res, err := h.Store.RegisterDailyLoginReward(c.Request.Context(), userID)
	if err != nil {
		logger.Error("daily login claim failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// Starter opens the free starter pack, at most once per account.
func (h *Handler) Starter(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	res, err := h.Store.GrantStarterPack(c.Request.Context(), userID)
	if err != nil {
		logger.Error("starter pack grant failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, res)
}
