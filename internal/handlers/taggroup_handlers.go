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
// --- Tag Group Handlers ---
//

type CreateTagGroupInput struct {
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parentId"`
}

func (h *Handlers) CreateTagGroup(c *gin.Context) {
	var input CreateTagGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tg := models.TagGroup{
		ID:        uuid.NewString(),
		Name:      input.Name,
		ParentID:  input.ParentID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO tag_groups (id, name, parent_id, created_at) VALUES (?, ?, ?, ?)`,
		tg.ID, tg.Name, tg.ParentID, tg.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag group"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tagGroup": tg})
}

func (h *Handlers) GetTagGroups(c *gin.Context) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT id, name, parent_id, created_at FROM tag_groups ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	groups := []models.TagGroup{}
	for rows.Next() {
		var tg models.TagGroup
		var parentID sql.NullString
		if err := rows.Scan(&tg.ID, &tg.Name, &parentID, &tg.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if parentID.Valid {
			tg.ParentID = &parentID.String
		}
		groups = append(groups, tg)
	}

	c.JSON(http.StatusOK, gin.H{"tagGroups": groups})
}

// GetTagGroupDescendants returns the subtree rooted at the given group,
// the group itself included, in breadth-first order.
func (h *Handlers) GetTagGroupDescendants(c *gin.Context) {
	id := c.Param("id")

	descendants, err := h.TagGroups.CollectDescendants(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if len(descendants) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tagGroups": descendants})
}

type UpdateTagGroupInput struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parentId"`
}

func (h *Handlers) UpdateTagGroup(c *gin.Context) {
	id := c.Param("id")

	var input UpdateTagGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Reparenting under the group's own subtree would create a cycle.
	if input.ParentID != nil {
		if *input.ParentID == id {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A tag group cannot be its own parent"})
			return
		}
		descendant, err := h.TagGroups.IsDescendant(c.Request.Context(), id, *input.ParentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if descendant {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move a tag group under its own descendant"})
			return
		}
	}

	res, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE tag_groups SET name = COALESCE(?, name), parent_id = COALESCE(?, parent_id) WHERE id = ?`,
		input.Name, input.ParentID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tag group"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag group updated"})
}

func (h *Handlers) DeleteTagGroup(c *gin.Context) {
	id := c.Param("id")

	// Children and member tags survive: they detach to the root.
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE tag_groups SET parent_id = NULL WHERE parent_id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag group"})
		return
	}
	if _, err := tx.Exec(`UPDATE tags SET tag_group_id = NULL WHERE tag_group_id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag group"})
		return
	}
	res, err := tx.Exec(`DELETE FROM tag_groups WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag group"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag group not found"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Commit failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag group deleted"})
}
