package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CTroeung1/MSM-inventory-system/internal/location"
	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

//
// --- Location Handlers ---
//

type CreateLocationInput struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentId"`
}

func (h *Handlers) CreateLocation(c *gin.Context) {
	var input CreateLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := models.Location{
		ID:        uuid.NewString(),
		Name:      input.Name,
		ParentID:  input.ParentID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO locations (id, name, parent_id, created_at) VALUES (?, ?, ?, ?)`,
		loc.ID, loc.Name, loc.ParentID, loc.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create location"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": loc})
}

func (h *Handlers) GetLocations(c *gin.Context) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT id, name, parent_id, created_at FROM locations ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		var loc models.Location
		var parentID sql.NullString
		if err := rows.Scan(&loc.ID, &loc.Name, &parentID, &loc.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if parentID.Valid {
			loc.ParentID = &parentID.String
		}
		locations = append(locations, loc)
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// GetLocationPath returns the full root-to-leaf path of a location, e.g.
// "Building 3/Room 12/Shelf A".
func (h *Handlers) GetLocationPath(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location id"})
		return
	}

	path, err := h.Locations.CollectPath(c.Request.Context(), id)
	if errors.Is(err, location.ErrInvalidLocation) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location is invalid"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}

type UpdateLocationInput struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parentId"`
}

func (h *Handlers) UpdateLocation(c *gin.Context) {
	id := c.Param("id")

	var input UpdateLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Reparenting below itself would orphan the subtree into a cycle.
	if input.ParentID != nil {
		if *input.ParentID == id {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A location cannot be its own parent"})
			return
		}
		ancestor, err := h.Locations.IsAncestor(c.Request.Context(), id, *input.ParentID)
		if err != nil && !errors.Is(err, location.ErrInvalidLocation) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if ancestor {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move a location under its own descendant"})
			return
		}
	}

	res, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE locations SET name = COALESCE(?, name), parent_id = COALESCE(?, parent_id) WHERE id = ?`,
		input.Name, input.ParentID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

func (h *Handlers) DeleteLocation(c *gin.Context) {
	id := c.Param("id")

	// Locations holding items or child locations must be emptied first.
	var inUse int
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT (SELECT COUNT(*) FROM items WHERE location_id = ? AND deleted = FALSE)
		      + (SELECT COUNT(*) FROM locations WHERE parent_id = ?)`, id, id,
	).Scan(&inUse)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Location still holds items or child locations"})
		return
	}

	res, err := h.DB.ExecContext(c.Request.Context(), `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted"})
}
