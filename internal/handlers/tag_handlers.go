package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

//
// --- Tag Handlers ---
//

type CreateTagInput struct {
	Name       string  `json:"name" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	Colour     string  `json:"colour"`
	TagGroupID *string `json:"tagGroupId"`
}

func (h *Handlers) CreateTag(c *gin.Context) {
	var input CreateTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Colour == "" {
		input.Colour = "#000000"
	}

	tag := models.Tag{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Type:       input.Type,
		Colour:     input.Colour,
		TagGroupID: input.TagGroupID,
	}

	_, err := h.DB.ExecContext(c.Request.Context(),
		`INSERT INTO tags (id, name, type, colour, tag_group_id) VALUES (?, ?, ?, ?, ?)`,
		tag.ID, tag.Name, tag.Type, tag.Colour, tag.TagGroupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

func (h *Handlers) GetTags(c *gin.Context) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT id, name, type, colour, tag_group_id FROM tags ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		var groupID sql.NullString
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Type, &tag.Colour, &groupID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if groupID.Valid {
			tag.TagGroupID = &groupID.String
		}
		tags = append(tags, tag)
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

type UpdateTagInput struct {
	Name       *string `json:"name"`
	Type       *string `json:"type"`
	Colour     *string `json:"colour"`
	TagGroupID *string `json:"tagGroupId"`
}

func (h *Handlers) UpdateTag(c *gin.Context) {
	id := c.Param("id")

	var input UpdateTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE tags SET name = COALESCE(?, name), type = COALESCE(?, type),
		 colour = COALESCE(?, colour), tag_group_id = COALESCE(?, tag_group_id)
		 WHERE id = ?`,
		input.Name, input.Type, input.Colour, input.TagGroupID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tag"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag updated"})
}

func (h *Handlers) DeleteTag(c *gin.Context) {
	id := c.Param("id")

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM item_tags WHERE tag_id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}
	res, err := tx.Exec(`DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Commit failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}
