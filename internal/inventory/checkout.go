package inventory

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CheckoutLine is the per-entry success marker returned by Checkout.
// Available reflects the stock level the check ran against, before the
// decrement; assets always report 1/1.
type CheckoutLine struct {
	ItemID            string `json:"itemId"`
	Available         int    `json:"available"`
	RequestedQuantity int    `json:"requestedQuantity"`
}

// Checkout marks a batch of items as loaned. Every item must pass its
// availability check before any write happens: consumables need enough
// remaining stock, assets must not already be loaned out. The decrement is a
// guarded conditional update, so a concurrent checkout that would oversell a
// consumable loses the race and rolls the whole batch back.
func (s *Service) Checkout(ctx context.Context, userID string, cart []CartEntry) ([]CheckoutLine, error) {
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

	// Business-rule checks, preserving input order.
	lines := make([]CheckoutLine, len(validations))
	var failures []Failure
	for i, v := range validations {
		entry := v.Entry
		if entry.Consumable != nil {
			if entry.Consumable.Available < entry.Quantity {
				failures = append(failures, Failure{
					ItemID:    entry.Item.ID,
					Message:   fmt.Sprintf("insufficient stock for item %s", entry.Item.ID),
					Requested: entry.Quantity,
					Available: entry.Consumable.Available,
				})
				continue
			}
			lines[i] = CheckoutLine{
				ItemID:            entry.Item.ID,
				Available:         entry.Consumable.Available,
				RequestedQuantity: entry.Quantity,
			}
			continue
		}

		// Asset: available unless the most recent record shows it loaned.
		if entry.LastRecord != nil && entry.LastRecord.Loaned {
			failures = append(failures, Failure{
				ItemID:  entry.Item.ID,
				Message: fmt.Sprintf("item %s is already loaned out", entry.Item.ID),
			})
			continue
		}
		lines[i] = CheckoutLine{ItemID: entry.Item.ID, Available: 1, RequestedQuantity: 1}
	}
	if len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning checkout transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	records := make([]recordLine, 0, len(validations))
	for i, v := range validations {
		entry := v.Entry
		records = append(records, recordLine{ItemID: entry.Item.ID, Quantity: lines[i].RequestedQuantity})

		if entry.Consumable == nil {
			continue
		}

		// Guarded decrement: zero rows affected means another checkout won
		// the stock between our check and this update.
		res, err := tx.ExecContext(ctx,
			`UPDATE consumables SET available = available - ? WHERE item_id = ? AND available >= ?`,
			entry.Quantity, entry.Item.ID, entry.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrementing stock for item %s: %w", entry.Item.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("decrementing stock for item %s: %w", entry.Item.ID, err)
		}
		if affected == 0 {
			return nil, &ValidationError{Failures: []Failure{{
				ItemID:    entry.Item.ID,
				Message:   fmt.Sprintf("insufficient stock for item %s", entry.Item.ID),
				Requested: entry.Quantity,
			}}}
		}
	}

	if err := insertItemRecords(ctx, tx, userID, true, records, now); err != nil {
		return nil, fmt.Errorf("recording checkout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing checkout: %w", err)
	}

	s.log.Info("checkout complete",
		zap.String("userId", userID),
		zap.Int("items", len(lines)))

	return lines, nil
}
