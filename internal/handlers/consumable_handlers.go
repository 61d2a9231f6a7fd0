package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

//
// --- Consumable Handlers ---
//

func (h *Handlers) GetConsumable(c *gin.Context) {
	itemID := c.Param("id")

	var consumable models.Consumable
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT item_id, available, total FROM consumables WHERE item_id = ?`, itemID,
	).Scan(&consumable.ItemID, &consumable.Available, &consumable.Total)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consumable not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"consumable": consumable})
}

type UpdateConsumableInput struct {
	Available int `json:"available" binding:"min=0"`
	Total     int `json:"total" binding:"min=0"`
}

// UpdateConsumable sets absolute stock counts, an administrative correction
// outside the checkout/check-in/restock workflows.
func (h *Handlers) UpdateConsumable(c *gin.Context) {
	itemID := c.Param("id")

	var input UpdateConsumableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Available > input.Total {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Available cannot exceed total"})
		return
	}

	res, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE consumables SET available = ?, total = ? WHERE item_id = ?`,
		input.Available, input.Total, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update consumable"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consumable not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consumable updated"})
}
