package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CTroeung1/MSM-inventory-system/internal/qr"
)

//
// --- QR Handlers ---
//

// GetQRURL returns the link a printed label for the item should encode.
func (h *Handlers) GetQRURL(c *gin.Context) {
	id := c.Param("id")

	var exists bool
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT COUNT(*) > 0 FROM items WHERE id = ? AND deleted = FALSE`, id).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": qr.GenerateURL(h.Cfg.Server.BaseURL, id)})
}

// GetQRImage renders the item's QR label as a PNG for direct printing.
func (h *Handlers) GetQRImage(c *gin.Context) {
	id := c.Param("id")

	var exists bool
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT COUNT(*) > 0 FROM items WHERE id = ? AND deleted = FALSE`, id).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	png, err := qr.RenderPNG(qr.GenerateURL(h.Cfg.Server.BaseURL, id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

type TranslateQRInput struct {
	Path string `json:"path" binding:"required"`
}

// TranslateQRPath maps a scanned QR path fragment to the frontend item route.
func (h *Handlers) TranslateQRPath(c *gin.Context) {
	var input TranslateQRInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": qr.TranslatePath(input.Path)})
}

type ScanQRInput struct {
	URL string `json:"url" binding:"required"`
}

// ScanQR resolves a scanned QR link to the full item it points at.
func (h *Handlers) ScanQR(c *gin.Context) {
	var input ScanQRInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.loadItem(c, qr.ItemIDFromURL(input.URL))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}
