package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

//
// --- Dashboard Handlers ---
//

// GetLoanHistory returns per-day audit-trail activity counts for the
// requested range (week, month or year).
func (h *Handlers) GetLoanHistory(c *gin.Context) {
	now := time.Now().UTC()
	var start time.Time
	switch c.DefaultQuery("range", "week") {
	case "week":
		start = now.AddDate(0, 0, -7)
	case "month":
		start = now.AddDate(0, -1, 0)
	case "year":
		start = now.AddDate(-1, 0, 0)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be week, month or year"})
		return
	}

	// DATE() works on both MySQL and SQLite.
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT DATE(created_at) AS day, COUNT(*) FROM item_records
		 WHERE created_at >= ? GROUP BY DATE(created_at) ORDER BY day ASC`, start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	type point struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}
	history := []point{}
	for rows.Next() {
		var p point
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		history = append(history, p)
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetInventoryByLocation returns non-deleted item counts per location.
func (h *Handlers) GetInventoryByLocation(c *gin.Context) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT l.name, COUNT(i.id) FROM locations l
		 LEFT JOIN items i ON i.location_id = l.id AND i.deleted = FALSE
		 GROUP BY l.id, l.name ORDER BY l.name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	type bucket struct {
		LocationName string `json:"locationName"`
		ItemCount    int    `json:"itemCount"`
	}
	buckets := []bucket{}
	for rows.Next() {
		var b bucket
		if err := rows.Scan(&b.LocationName, &b.ItemCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		buckets = append(buckets, b)
	}

	c.JSON(http.StatusOK, gin.H{"locations": buckets})
}

// GetTopLoanedItems ranks items by how many checkout records they have.
func (h *Handlers) GetTopLoanedItems(c *gin.Context) {
	limit := clampLimit(c.DefaultQuery("limit", "5"))

	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT i.name, COUNT(r.id) AS loan_count FROM items i
		 LEFT JOIN item_records r ON r.item_id = i.id AND r.loaned = TRUE
		 GROUP BY i.id, i.name ORDER BY loan_count DESC LIMIT ?`, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	type entry struct {
		ItemName  string `json:"itemName"`
		LoanCount int    `json:"loanCount"`
	}
	entries := []entry{}
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.ItemName, &e.LoanCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		entries = append(entries, e)
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// GetItemStatusStats returns totals used by the dashboard status cards.
func (h *Handlers) GetItemStatusStats(c *gin.Context) {
	ctx := c.Request.Context()

	var total, loaned, available int
	if err := h.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE deleted = FALSE`).Scan(&total); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err := h.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_records WHERE loaned = TRUE`).Scan(&loaned); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err := h.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(available), 0) FROM consumables`).Scan(&available); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"loaned":    loaned,
		"available": available,
	})
}

// GetTopTags ranks tags by how many items carry them.
func (h *Handlers) GetTopTags(c *gin.Context) {
	limit := clampLimit(c.DefaultQuery("limit", "5"))

	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT t.name, COUNT(it.item_id) AS item_count FROM tags t
		 LEFT JOIN item_tags it ON it.tag_id = t.id
		 GROUP BY t.id, t.name ORDER BY item_count DESC LIMIT ?`, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	type entry struct {
		TagName string `json:"tagName"`
		Count   int    `json:"count"`
	}
	entries := []entry{}
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.TagName, &e.Count); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		entries = append(entries, e)
	}

	c.JSON(http.StatusOK, gin.H{"tags": entries})
}

func clampLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 5
	}
	if limit > 20 {
		return 20
	}
	return limit
}
