package handlers

import (
	"net/http"
	"strconv"

	"chaotic_backend/internal/domain"
	"chaotic_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// Me returns the caller's wallet and progression snapshot, creating both
// lazily on first contact.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	wallet, prog, err := h.Progression.SnapshotFor(c.Request.Context(), userID)
	if err != nil {
		logger.Error("snapshot failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":        userID,
		"wallet":         wallet,
		"progression":    prog,
		"next_threshold": domain.LevelThreshold(prog.Level),
	})
}

// MyCards lists the caller's collection.
func (h *Handler) MyCards(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	entries, err := h.InventoryRepo.GetByUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("collection fetch failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cards": entries, "count": len(entries)})
}

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 200
)

// MyLedger returns the caller's most recent ledger events, newest first.
func (h *Handler) MyLedger(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	limit := defaultLedgerLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n > maxLedgerLimit {
			n = maxLedgerLimit
		}
		limit = n
	}

	events, err := h.LedgerRepo.GetByUserID(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("ledger fetch failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
