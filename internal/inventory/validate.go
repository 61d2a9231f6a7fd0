package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

// CartEntry is one requested line of a checkout, check-in or restock batch.
type CartEntry struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// ValidatedEntry pairs a full item snapshot with the requested quantity.
// Consumable is nil for assets; LastRecord is the item's single most recent
// audit-trail row, nil when the item has no history.
type ValidatedEntry struct {
	Item       models.Item
	Consumable *models.Consumable
	LastRecord *models.ItemRecord
	Quantity   int
}

// validation is the tagged per-entry result of validateCart.
type validation struct {
	OK      bool
	Failure Failure
	Entry   ValidatedEntry
}

// validateCart fetches each cart entry's current database state and attaches
// the requested quantity. Malformed entries (bad UUID, quantity < 1) reject
// the batch outright; lookup problems degrade to per-entry failure markers.
// Results come back one per input entry, in input order.
func (s *Service) validateCart(ctx context.Context, cart []CartEntry) ([]validation, error) {
	// Schema checks run before any lookup.
	var shapeFailures []Failure
	for _, entry := range cart {
		if _, err := uuid.Parse(entry.ItemID); err != nil {
			shapeFailures = append(shapeFailures, Failure{
				ItemID:  entry.ItemID,
				Message: fmt.Sprintf("schema validation failed: %q is not a valid UUID", entry.ItemID),
			})
			continue
		}
		if entry.Quantity < 1 {
			shapeFailures = append(shapeFailures, Failure{
				ItemID:  entry.ItemID,
				Message: "schema validation failed: quantity must be at least 1",
			})
		}
	}
	if len(shapeFailures) > 0 {
		return nil, &ValidationError{Failures: shapeFailures}
	}

	// Per-item lookups fan out concurrently; results land at their input
	// index so the output order matches the input order.
	results := make([]validation, len(cart))
	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range cart {
		g.Go(func() error {
			results[i] = s.lookupItem(gctx, entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// lookupItem loads one non-deleted item with its consumable record (if any)
// and its most recent audit-trail row. Not-found and storage errors become
// failure markers, never a hard error.
func (s *Service) lookupItem(ctx context.Context, entry CartEntry) validation {
	var item models.Item
	err := s.db.QueryRowContext(ctx,
		`SELECT id, serial, name, location_id, stored, cost, deleted, created_at, updated_at
		 FROM items WHERE id = ? AND deleted = FALSE`, entry.ItemID,
	).Scan(&item.ID, &item.Serial, &item.Name, &item.LocationID, &item.Stored,
		&item.Cost, &item.Deleted, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return validation{Failure: Failure{
			ItemID:  entry.ItemID,
			Message: fmt.Sprintf("item with %s does not exist within the database", entry.ItemID),
		}}
	}
	if err != nil {
		return validation{Failure: Failure{ItemID: entry.ItemID, Message: err.Error()}}
	}

	consumable := &models.Consumable{ItemID: item.ID}
	err = s.db.QueryRowContext(ctx,
		`SELECT available, total FROM consumables WHERE item_id = ?`, item.ID,
	).Scan(&consumable.Available, &consumable.Total)
	if errors.Is(err, sql.ErrNoRows) {
		consumable = nil
	} else if err != nil {
		return validation{Failure: Failure{ItemID: entry.ItemID, Message: err.Error()}}
	}

	lastRecord := &models.ItemRecord{}
	err = s.db.QueryRowContext(ctx,
		`SELECT id, item_id, action_by_user_id, loaned, quantity, notes, created_at
		 FROM item_records WHERE item_id = ? ORDER BY created_at DESC LIMIT 1`, item.ID,
	).Scan(&lastRecord.ID, &lastRecord.ItemID, &lastRecord.ActionByUserID,
		&lastRecord.Loaned, &lastRecord.Quantity, &lastRecord.Notes, &lastRecord.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		lastRecord = nil
	} else if err != nil {
		return validation{Failure: Failure{ItemID: entry.ItemID, Message: err.Error()}}
	}

	return validation{
		OK: true,
		Entry: ValidatedEntry{
			Item:       item,
			Consumable: consumable,
			LastRecord: lastRecord,
			Quantity:   entry.Quantity,
		},
	}
}
