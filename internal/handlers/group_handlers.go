package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

//
// --- Group Handlers ---
//

type CreateGroupInput struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentId"`
}

func (h *Handlers) CreateGroup(c *gin.Context) {
	var input CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group := models.Group{
		ID:        uuid.NewString(),
		Name:      input.Name,
		ParentID:  input.ParentID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO groups (id, name, parent_id, created_at) VALUES (?, ?, ?, ?)`,
		group.ID, group.Name, group.ParentID, group.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

func (h *Handlers) GetGroups(c *gin.Context) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT id, name, parent_id, created_at FROM groups ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		var parentID sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &parentID, &g.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if parentID.Valid {
			g.ParentID = &parentID.String
		}
		groups = append(groups, g)
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type UpdateGroupInput struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parentId"`
}

func (h *Handlers) UpdateGroup(c *gin.Context) {
	id := c.Param("id")

	var input UpdateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE groups SET name = COALESCE(?, name), parent_id = COALESCE(?, parent_id) WHERE id = ?`,
		input.Name, input.ParentID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group updated"})
}

func (h *Handlers) DeleteGroup(c *gin.Context) {
	id := c.Param("id")

	res, err := h.DB.ExecContext(c.Request.Context(), `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete group"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}
