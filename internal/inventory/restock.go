package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RestockLine reports a consumable's new totals after a restock. The values
// are computed as snapshot + delta while the mutation itself is an atomic
// database-level increment; the two agree because the batch commits only
// when every increment applied.
type RestockLine struct {
	ItemID    string `json:"itemId"`
	Total     int    `json:"total"`
	Available int    `json:"available"`
}

// Restock increases a consumable's available and total counts by the same
// delta (new stock arriving). An entry whose item has no consumable record
// fails as not-found and rejects the whole batch.
func (s *Service) Restock(ctx context.Context, cart []CartEntry) ([]RestockLine, error) {
	if len(cart) == 0 {
		return nil, &ValidationError{Failures: []Failure{{Message: "restock batch is empty"}}}
	}

	validations, err := s.validateCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := filterErrors(validations); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning restock transaction: %w", err)
	}
	defer tx.Rollback()

	var failures []Failure
	for _, v := range validations {
		entry := v.Entry
		if entry.Consumable == nil {
			failures = append(failures, Failure{
				ItemID:  entry.Item.ID,
				Message: fmt.Sprintf("consumable not found for item %s", entry.Item.ID),
			})
			continue
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE consumables SET available = available + ?, total = total + ? WHERE item_id = ?`,
			entry.Quantity, entry.Quantity, entry.Item.ID)
		if err != nil {
			return nil, fmt.Errorf("restocking item %s: %w", entry.Item.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("restocking item %s: %w", entry.Item.ID, err)
		}
		if affected == 0 {
			failures = append(failures, Failure{
				ItemID:  entry.Item.ID,
				Message: fmt.Sprintf("consumable not found for item %s", entry.Item.ID),
			})
		}
	}
	if len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing restock: %w", err)
	}

	s.log.Info("restock complete", zap.Int("items", len(validations)))

	lines := make([]RestockLine, len(validations))
	for i, v := range validations {
		lines[i] = RestockLine{
			ItemID:    v.Entry.Item.ID,
			Total:     v.Entry.Consumable.Total + v.Entry.Quantity,
			Available: v.Entry.Consumable.Available + v.Entry.Quantity,
		}
	}
	return lines, nil
}
