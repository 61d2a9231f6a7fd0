package inventory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CheckinLine is the per-entry success marker returned by Checkin.
type CheckinLine struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Checkin is the inverse of Checkout: it restores consumable stock and
// records returns. Consumables are a shared pool and are always returnable;
// assets must actually be loaned out. Stock restoration uses the same atomic
// increment form as restock rather than an absolute write computed from the
// pre-transaction snapshot.
func (s *Service) Checkin(ctx context.Context, userID string, cart []CartEntry) ([]CheckinLine, error) {
	if len(cart) == 0 {
		return nil, &ValidationError{Failures: []Failure{{Message: "cart is empty"}}}
	}

	validations, err := s.validateCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := filterErrors(validations); err != nil {
		return nil, err
	}

	// Only assets can fail the loan-state check.
	var failures []Failure
	for _, v := range validations {
		entry := v.Entry
		if entry.Consumable != nil {
			continue
		}
		if entry.LastRecord == nil {
			failures = append(failures, Failure{
				ItemID:  entry.Item.ID,
				Message: fmt.Sprintf("item %s has never been loaned out", entry.Item.ID),
			})
			continue
		}
		if !entry.LastRecord.Loaned {
			failures = append(failures, Failure{
				ItemID:  entry.Item.ID,
				Message: fmt.Sprintf("item %s is not loaned out", entry.Item.ID),
			})
		}
	}
	if len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning check-in transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	records := make([]recordLine, 0, len(validations))
	for _, v := range validations {
		entry := v.Entry
		if entry.Consumable == nil {
			// Assets return one unit regardless of the requested quantity.
			records = append(records, recordLine{ItemID: entry.Item.ID, Quantity: 1})
			continue
		}

		records = append(records, recordLine{ItemID: entry.Item.ID, Quantity: entry.Quantity})
		if _, err := tx.ExecContext(ctx,
			`UPDATE consumables SET available = available + ? WHERE item_id = ?`,
			entry.Quantity, entry.Item.ID); err != nil {
			return nil, fmt.Errorf("restoring stock for item %s: %w", entry.Item.ID, err)
		}
	}

	if err := insertItemRecords(ctx, tx, userID, false, records, now); err != nil {
		return nil, fmt.Errorf("recording check-in: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing check-in: %w", err)
	}

	s.log.Info("check-in complete",
		zap.String("userId", userID),
		zap.Int("items", len(validations)))

	// The response mirrors the input batch, in input order.
	lines := make([]CheckinLine, len(validations))
	for i, v := range validations {
		lines[i] = CheckinLine{ItemID: v.Entry.Item.ID, Quantity: v.Entry.Quantity}
	}
	return lines, nil
}
