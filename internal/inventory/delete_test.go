package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func itemDeleted(t *testing.T, svc *Service, itemID string) bool {
	t.Helper()
	var deleted bool
	if err := svc.db.QueryRow(`SELECT deleted FROM items WHERE id = ?`, itemID).Scan(&deleted); err != nil {
		t.Fatalf("reading deleted flag: %v", err)
	}
	return deleted
}

func TestBulkDeleteUnusedItems(t *testing.T) {
	svc, db := newTestService(t)
	location := seedLocation(t, db)
	asset := seedAsset(t, db, location)
	consumable := seedConsumable(t, db, location, 10, 10)

	if err := svc.BulkDelete(context.Background(), []string{asset, consumable}); err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if !itemDeleted(t, svc, asset) || !itemDeleted(t, svc, consumable) {
		t.Errorf("expected both items soft-deleted")
	}
}

func TestBulkDeleteRejectsLoanedAsset(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	location := seedLocation(t, db)
	asset := seedAsset(t, db, location)
	seedRecord(t, db, asset, user, true, 1, time.Now().UTC())

	err := svc.BulkDelete(context.Background(), []string{asset})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Failures[0].Message, "currently in loan") {
		t.Errorf("unexpected failure message %q", verr.Failures[0].Message)
	}
	if itemDeleted(t, svc, asset) {
		t.Errorf("asset must survive a rejected delete")
	}
}

func TestBulkDeleteReturnedAsset(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	location := seedLocation(t, db)
	asset := seedAsset(t, db, location)
	seedRecord(t, db, asset, user, true, 1, time.Now().UTC().Add(-time.Hour))
	seedRecord(t, db, asset, user, false, 1, time.Now().UTC())

	if err := svc.BulkDelete(context.Background(), []string{asset}); err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if !itemDeleted(t, svc, asset) {
		t.Errorf("expected returned asset to be deletable")
	}
}

func TestBulkDeleteRejectsConsumableWithLoanBalance(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	location := seedLocation(t, db)
	consumable := seedConsumable(t, db, location, 5, 10)
	seedRecord(t, db, consumable, user, true, 5, time.Now().UTC().Add(-2*time.Hour))
	seedRecord(t, db, consumable, user, false, 3, time.Now().UTC().Add(-time.Hour))

	err := svc.BulkDelete(context.Background(), []string{consumable})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if itemDeleted(t, svc, consumable) {
		t.Errorf("consumable with outstanding loans must survive")
	}
}

func TestBulkDeleteConsumableWithSettledBalance(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	location := seedLocation(t, db)
	consumable := seedConsumable(t, db, location, 10, 10)
	seedRecord(t, db, consumable, user, true, 5, time.Now().UTC().Add(-2*time.Hour))
	seedRecord(t, db, consumable, user, false, 5, time.Now().UTC().Add(-time.Hour))

	if err := svc.BulkDelete(context.Background(), []string{consumable}); err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if !itemDeleted(t, svc, consumable) {
		t.Errorf("expected settled consumable to be deletable")
	}
}

func TestBulkDeleteAllOrNothing(t *testing.T) {
	svc, db := newTestService(t)
	user := seedUser(t, db)
	location := seedLocation(t, db)
	clean := seedAsset(t, db, location)
	loaned := seedAsset(t, db, location)
	seedRecord(t, db, loaned, user, true, 1, time.Now().UTC())

	err := svc.BulkDelete(context.Background(), []string{clean, loaned})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if itemDeleted(t, svc, clean) {
		t.Errorf("no item may be deleted when any entry fails")
	}
}

func TestBulkDeleteUnknownItem(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.BulkDelete(context.Background(), []string{"2b1f9d4c-7e6a-4b0d-9c3e-5a8f7d2e1b0c"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBulkDeleteEmptyBatch(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.BulkDelete(context.Background(), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty batch, got %v", err)
	}
}
