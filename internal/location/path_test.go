package location

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/CTroeung1/MSM-inventory-system/internal/database"
)

func seedLocation(t *testing.T, db *sql.DB, name string, parentID *string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO locations (id, name, parent_id, created_at) VALUES (?, ?, ?, ?)`,
		id, name, parentID, time.Now().UTC())
	if err != nil {
		t.Fatalf("seeding location %q: %v", name, err)
	}
	return id
}

func TestCollectPath(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)

	building := seedLocation(t, db, "Building 3", nil)
	room := seedLocation(t, db, "Room 12", &building)
	shelf := seedLocation(t, db, "Shelf A", &room)

	path, err := svc.CollectPath(context.Background(), shelf)
	if err != nil {
		t.Fatalf("CollectPath: %v", err)
	}
	if path != "Building 3/Room 12/Shelf A" {
		t.Errorf("unexpected path %q", path)
	}
}

func TestCollectPathRoot(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)

	root := seedLocation(t, db, "Warehouse", nil)

	path, err := svc.CollectPath(context.Background(), root)
	if err != nil {
		t.Fatalf("CollectPath: %v", err)
	}
	if path != "Warehouse" {
		t.Errorf("unexpected path %q", path)
	}
}

func TestCollectPathUnknownLocation(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)

	_, err := svc.CollectPath(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestIsAncestor(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	building := seedLocation(t, db, "Building 3", nil)
	room := seedLocation(t, db, "Room 12", &building)
	shelf := seedLocation(t, db, "Shelf A", &room)
	other := seedLocation(t, db, "Building 4", nil)

	ok, err := svc.IsAncestor(ctx, building, shelf)
	if err != nil || !ok {
		t.Errorf("expected building to be an ancestor of shelf (ok=%v err=%v)", ok, err)
	}
	ok, err = svc.IsAncestor(ctx, other, shelf)
	if err != nil || ok {
		t.Errorf("expected unrelated building not to be an ancestor (ok=%v err=%v)", ok, err)
	}
	ok, err = svc.IsAncestor(ctx, shelf, shelf)
	if err != nil || ok {
		t.Errorf("a location must not be its own ancestor (ok=%v err=%v)", ok, err)
	}
}
