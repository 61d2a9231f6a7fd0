package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// BulkDelete soft-deletes a batch of items. An item can only be deleted when
// its audit trail carries no unresolved loan balance: assets must not be
// currently loaned out, and consumables must have every loaned unit returned.
// Like the other workflows, the batch is all-or-nothing.
func (s *Service) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return &ValidationError{Failures: []Failure{{Message: "no items to delete"}}}
	}

	var failures []Failure
	for _, id := range ids {
		if failure := s.checkDeletable(ctx, id); failure != nil {
			failures = append(failures, *failure)
		}
	}
	if len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids)+1)
	args = append(args, time.Now().UTC())
	for _, id := range ids {
		args = append(args, id)
	}

	query := fmt.Sprintf(`UPDATE items SET deleted = TRUE, updated_at = ? WHERE id IN (%s)`, placeholders)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting items: %w", err)
	}

	return nil
}

// checkDeletable inspects one item's audit trail for an unresolved loan.
func (s *Service) checkDeletable(ctx context.Context, id string) *Failure {
	var name string
	var hasConsumable bool
	err := s.db.QueryRowContext(ctx,
		`SELECT i.name, c.item_id IS NOT NULL
		 FROM items i LEFT JOIN consumables c ON c.item_id = i.id
		 WHERE i.id = ? AND i.deleted = FALSE`, id,
	).Scan(&name, &hasConsumable)
	if errors.Is(err, sql.ErrNoRows) {
		return &Failure{ItemID: id, Message: fmt.Sprintf("item with %s does not exist within the database", id)}
	}
	if err != nil {
		return &Failure{ItemID: id, Message: err.Error()}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT loaned, quantity FROM item_records WHERE item_id = ? ORDER BY created_at DESC`, id)
	if err != nil {
		return &Failure{ItemID: id, Message: err.Error()}
	}
	defer rows.Close()

	var loanedFlags []bool
	var quantities []int
	for rows.Next() {
		var loaned bool
		var quantity int
		if err := rows.Scan(&loaned, &quantity); err != nil {
			return &Failure{ItemID: id, Message: err.Error()}
		}
		loanedFlags = append(loanedFlags, loaned)
		quantities = append(quantities, quantity)
	}
	if err := rows.Err(); err != nil {
		return &Failure{ItemID: id, Message: err.Error()}
	}

	if len(loanedFlags) == 0 {
		return nil
	}

	inLoan := &Failure{ItemID: id, Message: fmt.Sprintf("failed to delete, %s currently in loan", name)}

	// A single loaned record means nothing was ever returned.
	if len(loanedFlags) < 2 && loanedFlags[0] {
		return inLoan
	}

	// Assets only need the most recent record inspected.
	if !hasConsumable && loanedFlags[0] {
		return inLoan
	}

	// Consumables must have every loaned unit checked back in.
	balance := 0
	for i, loaned := range loanedFlags {
		if loaned {
			balance += quantities[i]
		} else {
			balance -= quantities[i]
		}
	}
	if balance != 0 {
		return inLoan
	}

	return nil
}
