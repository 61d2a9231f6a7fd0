package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/CTroeung1/MSM-inventory-system/internal/inventory"
	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

//
// --- Item Handlers ---
//

type CreateConsumableInput struct {
	Available int `json:"available" binding:"min=0"`
	Total     int `json:"total" binding:"min=0"`
}

type CreateItemInput struct {
	Serial     string                 `json:"serial" binding:"max=100"`
	Name       string                 `json:"name" binding:"required,max=200"`
	LocationID string                 `json:"locationId" binding:"required,uuid"`
	Stored     *bool                  `json:"stored"`
	Cost       int                    `json:"cost" binding:"min=0"`
	TagIDs     []string               `json:"tagIds"`
	Consumable *CreateConsumableInput `json:"consumable"`
}

// generateSerial derives a unique serial from the item name when the client
// does not supply one.
func generateSerial(name string) string {
	return slug.Make(name) + "-" + uuid.NewString()[:8]
}

func (h *Handlers) CreateItem(c *gin.Context) {
	var input CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Consumable != nil && input.Consumable.Available > input.Consumable.Total {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Available cannot exceed total"})
		return
	}

	serial := input.Serial
	if serial == "" {
		serial = generateSerial(input.Name)
	}
	stored := true
	if input.Stored != nil {
		stored = *input.Stored
	}

	now := time.Now().UTC()
	item := models.Item{
		ID:         uuid.NewString(),
		Serial:     serial,
		Name:       input.Name,
		LocationID: input.LocationID,
		Stored:     stored,
		Cost:       input.Cost,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO items (id, serial, name, location_id, stored, cost, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, FALSE, ?, ?)`,
		item.ID, item.Serial, item.Name, item.LocationID, item.Stored, item.Cost,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		h.Log.Error("creating item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	if input.Consumable != nil {
		_, err = tx.Exec(
			`INSERT INTO consumables (item_id, available, total) VALUES (?, ?, ?)`,
			item.ID, input.Consumable.Available, input.Consumable.Total)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create consumable record"})
			return
		}
		item.Consumable = &models.Consumable{
			ItemID:    item.ID,
			Available: input.Consumable.Available,
			Total:     input.Consumable.Total,
		}
	}

	for _, tagID := range input.TagIDs {
		if _, err := tx.Exec(`INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)`, item.ID, tagID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tag id: " + tagID})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Commit failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handlers) GetItem(c *gin.Context) {
	id := c.Param("id")

	item, err := h.loadItem(c, id)
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

// loadItem fetches one non-deleted item with its consumable record, location,
// tags and full audit trail.
func (h *Handlers) loadItem(c *gin.Context, id string) (*models.Item, error) {
	ctx := c.Request.Context()

	var item models.Item
	err := h.DB.QueryRowContext(ctx,
		`SELECT id, serial, name, location_id, stored, cost, deleted, created_at, updated_at
		 FROM items WHERE id = ? AND deleted = FALSE`, id,
	).Scan(&item.ID, &item.Serial, &item.Name, &item.LocationID, &item.Stored,
		&item.Cost, &item.Deleted, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var consumable models.Consumable
	err = h.DB.QueryRowContext(ctx,
		`SELECT item_id, available, total FROM consumables WHERE item_id = ?`, id,
	).Scan(&consumable.ItemID, &consumable.Available, &consumable.Total)
	if err == nil {
		item.Consumable = &consumable
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	var loc models.Location
	var parentID sql.NullString
	err = h.DB.QueryRowContext(ctx,
		`SELECT id, name, parent_id, created_at FROM locations WHERE id = ?`, item.LocationID,
	).Scan(&loc.ID, &loc.Name, &parentID, &loc.CreatedAt)
	if err == nil {
		if parentID.Valid {
			loc.ParentID = &parentID.String
		}
		item.Location = &loc
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	tagRows, err := h.DB.QueryContext(ctx,
		`SELECT t.id, t.name, t.type, t.colour, t.tag_group_id
		 FROM tags t JOIN item_tags it ON it.tag_id = t.id
		 WHERE it.item_id = ? ORDER BY t.name`, id)
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag models.Tag
		var groupID sql.NullString
		if err := tagRows.Scan(&tag.ID, &tag.Name, &tag.Type, &tag.Colour, &groupID); err != nil {
			return nil, err
		}
		if groupID.Valid {
			tag.TagGroupID = &groupID.String
		}
		item.Tags = append(item.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	records, err := h.loadItemRecords(c, id)
	if err != nil {
		return nil, err
	}
	item.Records = records

	return &item, nil
}

func (h *Handlers) loadItemRecords(c *gin.Context, itemID string) ([]models.ItemRecord, error) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT id, item_id, action_by_user_id, loaned, quantity, notes, created_at
		 FROM item_records WHERE item_id = ? ORDER BY created_at DESC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.ItemRecord{}
	for rows.Next() {
		var r models.ItemRecord
		if err := rows.Scan(&r.ID, &r.ItemID, &r.ActionByUserID, &r.Loaned,
			&r.Quantity, &r.Notes, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (h *Handlers) GetItems(c *gin.Context) {
	rows, err := h.DB.QueryContext(c.Request.Context(),
		`SELECT i.id, i.serial, i.name, i.location_id, i.stored, i.cost, i.deleted,
		        i.created_at, i.updated_at, c.available, c.total
		 FROM items i LEFT JOIN consumables c ON c.item_id = i.id
		 WHERE i.deleted = FALSE ORDER BY i.created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		var available, total sql.NullInt64
		if err := rows.Scan(&item.ID, &item.Serial, &item.Name, &item.LocationID,
			&item.Stored, &item.Cost, &item.Deleted, &item.CreatedAt, &item.UpdatedAt,
			&available, &total); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if available.Valid {
			item.Consumable = &models.Consumable{
				ItemID:    item.ID,
				Available: int(available.Int64),
				Total:     int(total.Int64),
			}
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItemRecords returns an item's full audit trail, newest first.
func (h *Handlers) GetItemRecords(c *gin.Context) {
	id := c.Param("id")

	var exists bool
	err := h.DB.QueryRowContext(c.Request.Context(),
		`SELECT COUNT(*) > 0 FROM items WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	records, err := h.loadItemRecords(c, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"itemRecords": records})
}

type UpdateItemInput struct {
	Serial     *string `json:"serial"`
	Name       *string `json:"name"`
	LocationID *string `json:"locationId"`
	Stored     *bool   `json:"stored"`
	Cost       *int    `json:"cost"`
}

func (h *Handlers) UpdateItem(c *gin.Context) {
	id := c.Param("id")

	var input UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.DB.ExecContext(c.Request.Context(),
		`UPDATE items SET serial = COALESCE(?, serial), name = COALESCE(?, name),
		 location_id = COALESCE(?, location_id), stored = COALESCE(?, stored),
		 cost = COALESCE(?, cost), updated_at = ?
		 WHERE id = ? AND deleted = FALSE`,
		input.Serial, input.Name, input.LocationID, input.Stored, input.Cost,
		time.Now().UTC(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item updated"})
}

type BulkDeleteInput struct {
	IDs []string `json:"ids" binding:"required"`
}

// BulkDeleteItems soft-deletes a batch of items. Items with an unresolved
// loan balance reject the whole batch.
func (h *Handlers) BulkDeleteItems(c *gin.Context) {
	var input BulkDeleteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Inventory.BulkDelete(c.Request.Context(), input.IDs)
	var verr *inventory.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "failures": verr.Failures})
		return
	}
	if err != nil {
		h.Log.Error("bulk delete", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Items deleted", "count": len(input.IDs)})
}
