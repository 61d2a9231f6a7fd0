package inventory

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/CTroeung1/MSM-inventory-system/internal/database"
)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	db := database.NewTestDB(t)
	return NewService(db, nil), db
}

func seedUser(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO users (id, name, email, password_hash, email_verified, created_at) VALUES (?, ?, ?, ?, TRUE, ?)`,
		id, "Test User", id+"@example.com", "x", time.Now().UTC())
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return id
}

func seedLocation(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO locations (id, name, created_at) VALUES (?, ?, ?)`,
		id, "Shelf A", time.Now().UTC())
	if err != nil {
		t.Fatalf("seeding location: %v", err)
	}
	return id
}

func seedAsset(t *testing.T, db *sql.DB, locationID string) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO items (id, serial, name, location_id, stored, cost, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, TRUE, 0, FALSE, ?, ?)`,
		id, "asset-"+id[:8], "Test Asset", locationID, now, now)
	if err != nil {
		t.Fatalf("seeding asset: %v", err)
	}
	return id
}

func seedConsumable(t *testing.T, db *sql.DB, locationID string, available, total int) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO items (id, serial, name, location_id, stored, cost, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, TRUE, 0, FALSE, ?, ?)`,
		id, "cons-"+id[:8], "Test Consumable", locationID, now, now)
	if err != nil {
		t.Fatalf("seeding consumable item: %v", err)
	}
	_, err = db.Exec(
		`INSERT INTO consumables (item_id, available, total) VALUES (?, ?, ?)`,
		id, available, total)
	if err != nil {
		t.Fatalf("seeding consumable stock: %v", err)
	}
	return id
}

func seedRecord(t *testing.T, db *sql.DB, itemID, userID string, loaned bool, quantity int, at time.Time) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO item_records (id, item_id, action_by_user_id, loaned, quantity, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, '', ?)`,
		uuid.NewString(), itemID, userID, loaned, quantity, at)
	if err != nil {
		t.Fatalf("seeding item record: %v", err)
	}
}

func consumableCounts(t *testing.T, db *sql.DB, itemID string) (available, total int) {
	t.Helper()
	err := db.QueryRow(`SELECT available, total FROM consumables WHERE item_id = ?`, itemID).
		Scan(&available, &total)
	if err != nil {
		t.Fatalf("reading consumable counts: %v", err)
	}
	return available, total
}

func countRecords(t *testing.T, db *sql.DB, itemID string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM item_records WHERE item_id = ?`, itemID).Scan(&n); err != nil {
		t.Fatalf("counting item records: %v", err)
	}
	return n
}

func latestRecord(t *testing.T, db *sql.DB, itemID string) (loaned bool, quantity int) {
	t.Helper()
	err := db.QueryRow(
		`SELECT loaned, quantity FROM item_records WHERE item_id = ? ORDER BY created_at DESC LIMIT 1`,
		itemID).Scan(&loaned, &quantity)
	if err != nil {
		t.Fatalf("reading latest record: %v", err)
	}
	return loaned, quantity
}
