package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CTroeung1/MSM-inventory-system/internal/inventory"
)

//
// --- Cart Workflow Handlers ---
//

type CartInput struct {
	Cart []inventory.CartEntry `json:"cart" binding:"required"`
}

// Checkout removes the requested items from store: consumable stock is
// decremented and assets are marked loaned. The batch is all-or-nothing.
func (h *Handlers) Checkout(c *gin.Context) {
	var input CartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := h.Inventory.Checkout(c.Request.Context(), currentUserID(c), input.Cart)
	if err != nil {
		h.respondCartError(c, "checkout", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": lines})
}

// Checkin returns loaned items: consumable stock is restored and assets are
// marked returned.
func (h *Handlers) Checkin(c *gin.Context) {
	var input CartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := h.Inventory.Checkin(c.Request.Context(), currentUserID(c), input.Cart)
	if err != nil {
		h.respondCartError(c, "checkin", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": lines})
}

// Restock adds newly arrived consumable stock, raising available and total
// by the same amount per entry.
func (h *Handlers) Restock(c *gin.Context) {
	var input CartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := h.Inventory.Restock(c.Request.Context(), input.Cart)
	if err != nil {
		h.respondCartError(c, "restock", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": lines})
}

// respondCartError distinguishes per-item validation failures, which the
// frontend renders line by line, from opaque storage failures.
func (h *Handlers) respondCartError(c *gin.Context, op string, err error) {
	var verr *inventory.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "failures": verr.Failures})
		return
	}
	h.Log.Error(op+" failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
}
