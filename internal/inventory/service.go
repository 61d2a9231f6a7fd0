// Package inventory implements the cart transaction workflows: checkout,
// check-in, restock and soft delete. Every workflow validates its whole
// batch against current database state first, then applies all writes inside
// a single transaction, so a batch either fully applies or not at all.
package inventory

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the item workflows against the primary database pool.
type Service struct {
	db  *sql.DB
	log *zap.Logger
}

// NewService creates an inventory workflow service.
func NewService(db *sql.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

// recordLine is one pending audit-trail row.
type recordLine struct {
	ItemID   string
	Quantity int
}

// insertItemRecords bulk-inserts one audit-trail row per line, all sharing
// the same loaned flag, acting user and timestamp.
func insertItemRecords(ctx context.Context, tx *sql.Tx, userID string, loaned bool, lines []recordLine, now time.Time) error {
	if len(lines) == 0 {
		return nil
	}

	var query strings.Builder
	query.WriteString(`INSERT INTO item_records (id, item_id, action_by_user_id, loaned, quantity, notes, created_at) VALUES `)

	args := make([]any, 0, len(lines)*7)
	for i, line := range lines {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString("(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, uuid.NewString(), line.ItemID, userID, loaned, line.Quantity, "", now)
	}

	_, err := tx.ExecContext(ctx, query.String(), args...)
	return err
}
