package inventory

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCheckinLoanedAsset(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	item := seedAsset(t, db, location)
	seedRecord(t, db, item, user, true, 1, time.Now().UTC().Add(-time.Hour))

	lines, err := svc.Checkin(ctx, user, []CartEntry{{ItemID: item, Quantity: 1}})
	if err != nil {
		t.Fatalf("Checkin: %v", err)
	}
	if len(lines) != 1 || lines[0].ItemID != item {
		t.Fatalf("unexpected lines: %+v", lines)
	}

	if loaned, _ := latestRecord(t, db, item); loaned {
		t.Error("expected the latest record to show the asset returned")
	}
	if n := countRecords(t, db, item); n != 2 {
		t.Errorf("expected 2 records, got %d", n)
	}
}

func TestCheckinNeverLoanedAsset(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	item := seedAsset(t, db, location)

	_, err := svc.Checkin(ctx, user, []CartEntry{{ItemID: item, Quantity: 1}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Failures) != 1 || verr.Failures[0].ItemID != item {
		t.Errorf("unexpected failures: %+v", verr.Failures)
	}
	if n := countRecords(t, db, item); n != 0 {
		t.Errorf("expected no writes, got %d records", n)
	}
}

func TestCheckinAssetNotCurrentlyLoaned(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	item := seedAsset(t, db, location)
	base := time.Now().UTC().Add(-time.Hour)
	seedRecord(t, db, item, user, true, 1, base)
	seedRecord(t, db, item, user, false, 1, base.Add(time.Minute))

	_, err := svc.Checkin(ctx, user, []CartEntry{{ItemID: item, Quantity: 1}})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if n := countRecords(t, db, item); n != 2 {
		t.Errorf("expected no writes, got %d records", n)
	}
}

func TestCheckinConsumableRestoresStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	item := seedConsumable(t, db, location, 5, 100)

	lines, err := svc.Checkin(ctx, user, []CartEntry{{ItemID: item, Quantity: 3}})
	if err != nil {
		t.Fatalf("Checkin: %v", err)
	}
	if lines[0].Quantity != 3 {
		t.Errorf("expected quantity 3 in response, got %d", lines[0].Quantity)
	}

	available, total := consumableCounts(t, db, item)
	if available != 8 || total != 100 {
		t.Errorf("expected available=8 total=100, got %d/%d", available, total)
	}
	if loaned, quantity := latestRecord(t, db, item); loaned || quantity != 3 {
		t.Errorf("expected record loaned=false quantity=3, got %v/%d", loaned, quantity)
	}
}

func TestCheckinMixedBatchFailsOnAsset(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, db)
	location := seedLocation(t, db)
	consumable := seedConsumable(t, db, location, 5, 100)
	asset := seedAsset(t, db, location)

	// The asset was never loaned, so the whole batch must fail and the
	// consumable's stock may not move.
	_, err := svc.Checkin(ctx, user, []CartEntry{
		{ItemID: consumable, Quantity: 2},
		{ItemID: asset, Quantity: 1},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if available, _ := consumableCounts(t, db, consumable); available != 5 {
		t.Errorf("expected untouched stock 5, got %d", available)
	}
}

func TestCheckinEmptyCart(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)

	_, err := svc.Checkin(context.Background(), user, []CartEntry{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty cart, got %v", err)
	}
}
