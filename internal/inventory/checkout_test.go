package inventory

import (
	"context"
	"errors"
	"testing"
)

func TestCheckoutConsumable(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	item := seedConsumable(t, db, location, 10, 100)

	lines, err := svc.Checkout(ctx, user, []CartEntry{{ItemID: item, Quantity: 5}})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].ItemID != item || lines[0].RequestedQuantity != 5 || lines[0].Available != 10 {
		t.Errorf("unexpected line: %+v", lines[0])
	}

	available, total := consumableCounts(t, db, item)
	if available != 5 || total != 100 {
		t.Errorf("expected available=5 total=100, got %d/%d", available, total)
	}
	loaned, quantity := latestRecord(t, db, item)
	if !loaned || quantity != 5 {
		t.Errorf("expected record loaned=true quantity=5, got %v/%d", loaned, quantity)
	}

	// A follow-up request for more than the remaining stock must fail and
	// leave the counts untouched.
	_, err = svc.Checkout(ctx, user, []CartEntry{{ItemID: item, Quantity: 10}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Failures) != 1 || verr.Failures[0].Available != 5 || verr.Failures[0].Requested != 10 {
		t.Errorf("unexpected failures: %+v", verr.Failures)
	}
	if available, _ := consumableCounts(t, db, item); available != 5 {
		t.Errorf("expected available to remain 5, got %d", available)
	}
}

func TestCheckoutAsset(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	item := seedAsset(t, db, location)

	lines, err := svc.Checkout(ctx, user, []CartEntry{{ItemID: item, Quantity: 1}})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if lines[0].Available != 1 || lines[0].RequestedQuantity != 1 {
		t.Errorf("unexpected asset line: %+v", lines[0])
	}
	if loaned, quantity := latestRecord(t, db, item); !loaned || quantity != 1 {
		t.Errorf("expected record loaned=true quantity=1, got %v/%d", loaned, quantity)
	}

	// The immediate second checkout must fail: the most recent record now
	// shows the asset loaned out.
	_, err = svc.Checkout(ctx, user, []CartEntry{{ItemID: item, Quantity: 1}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if n := countRecords(t, db, item); n != 1 {
		t.Errorf("expected 1 record after failed checkout, got %d", n)
	}
}

func TestCheckoutAllOrNothing(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	good := seedConsumable(t, db, location, 10, 10)
	bad := seedConsumable(t, db, location, 1, 10)

	_, err := svc.Checkout(ctx, user, []CartEntry{
		{ItemID: good, Quantity: 2},
		{ItemID: bad, Quantity: 5},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Failures) != 1 || verr.Failures[0].ItemID != bad {
		t.Errorf("expected only the short item to fail, got %+v", verr.Failures)
	}

	// Nothing may have been written for either entry.
	if available, _ := consumableCounts(t, db, good); available != 10 {
		t.Errorf("expected untouched stock 10, got %d", available)
	}
	if n := countRecords(t, db, good) + countRecords(t, db, bad); n != 0 {
		t.Errorf("expected 0 records, got %d", n)
	}
}

func TestCheckoutPreservesInputOrder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	first := seedAsset(t, db, location)
	second := seedConsumable(t, db, location, 4, 4)
	third := seedAsset(t, db, location)

	lines, err := svc.Checkout(ctx, user, []CartEntry{
		{ItemID: first, Quantity: 1},
		{ItemID: second, Quantity: 2},
		{ItemID: third, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	want := []string{first, second, third}
	for i, line := range lines {
		if line.ItemID != want[i] {
			t.Errorf("line %d: expected %s, got %s", i, want[i], line.ItemID)
		}
	}
}

func TestCheckoutUnknownItem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)

	_, err := svc.Checkout(ctx, user, []CartEntry{
		{ItemID: "8b8f64f6-57cd-4f0f-a2a0-7a5d0b7a6f00", Quantity: 1},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(verr.Failures))
	}
}

func TestCheckoutSoftDeletedItem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	item := seedAsset(t, db, location)
	if _, err := db.Exec(`UPDATE items SET deleted = TRUE WHERE id = ?`, item); err != nil {
		t.Fatalf("soft deleting item: %v", err)
	}

	_, err := svc.Checkout(ctx, user, []CartEntry{{ItemID: item, Quantity: 1}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	_, err := svc.Checkout(context.Background(), user, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty cart, got %v", err)
	}
}
