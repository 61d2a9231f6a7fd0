package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CTroeung1/MSM-inventory-system/internal/config"
	"github.com/CTroeung1/MSM-inventory-system/internal/database"
	"github.com/CTroeung1/MSM-inventory-system/internal/inventory"
)

type cartFixture struct {
	router *gin.Engine
	db     *sql.DB
	user   string
	item   string
}

// newCartFixture wires the cart routes against an in-memory database, with
// the auth middleware replaced by a stub injecting a seeded user. The item
// is a consumable with 10 of 100 units available.
func newCartFixture(t *testing.T) cartFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := database.NewTestDB(t)
	now := time.Now().UTC()

	user := uuid.NewString()
	if _, err := db.Exec(
		`INSERT INTO users (id, name, email, password_hash, email_verified, created_at) VALUES (?, 'Handler Test', ?, 'x', TRUE, ?)`,
		user, user+"@example.com", now); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	locID := uuid.NewString()
	if _, err := db.Exec(
		`INSERT INTO locations (id, name, created_at) VALUES (?, 'Shelf', ?)`, locID, now); err != nil {
		t.Fatalf("seeding location: %v", err)
	}
	item := uuid.NewString()
	if _, err := db.Exec(
		`INSERT INTO items (id, serial, name, location_id, stored, cost, deleted, created_at, updated_at)
		 VALUES (?, ?, 'Filament', ?, TRUE, 0, FALSE, ?, ?)`,
		item, "f-"+item[:8], locID, now, now); err != nil {
		t.Fatalf("seeding item: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO consumables (item_id, available, total) VALUES (?, 10, 100)`, item); err != nil {
		t.Fatalf("seeding consumable: %v", err)
	}

	h := &Handlers{
		DB:        db,
		Inventory: inventory.NewService(db, nil),
		Log:       zap.NewNop(),
		Cfg:       &config.Config{},
	}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", user)
		c.Next()
	})
	router.POST("/v1/cart/checkout", h.Checkout)
	router.POST("/v1/cart/checkin", h.Checkin)
	router.POST("/v1/consumables/restock", h.Restock)

	return cartFixture{router: router, db: db, user: user, item: item}
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckoutEndpoint(t *testing.T) {
	fx := newCartFixture(t)

	w := postJSON(t, fx.router, "/v1/cart/checkout",
		fmt.Sprintf(`{"cart":[{"itemId":%q,"quantity":3}]}`, fx.item))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []inventory.CheckoutLine `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].RequestedQuantity != 3 {
		t.Errorf("unexpected response %+v", resp.Items)
	}

	var available int
	if err := fx.db.QueryRow(`SELECT available FROM consumables WHERE item_id = ?`, fx.item).Scan(&available); err != nil {
		t.Fatalf("reading stock: %v", err)
	}
	if available != 7 {
		t.Errorf("expected stock 7 after checkout, got %d", available)
	}
}

func TestCheckoutEndpointValidationFailure(t *testing.T) {
	fx := newCartFixture(t)

	// More than the 10 units in stock.
	w := postJSON(t, fx.router, "/v1/cart/checkout",
		fmt.Sprintf(`{"cart":[{"itemId":%q,"quantity":99}]}`, fx.item))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Failures []inventory.Failure `json:"failures"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Failures) != 1 || resp.Failures[0].Available != 10 {
		t.Errorf("expected one failure reporting available=10, got %+v", resp.Failures)
	}
}

func TestCheckoutEndpointRejectsMalformedBody(t *testing.T) {
	fx := newCartFixture(t)

	w := postJSON(t, fx.router, "/v1/cart/checkout", `{"cart": "nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRestockEndpoint(t *testing.T) {
	fx := newCartFixture(t)

	w := postJSON(t, fx.router, "/v1/consumables/restock",
		fmt.Sprintf(`{"cart":[{"itemId":%q,"quantity":25}]}`, fx.item))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []inventory.RestockLine `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Available != 35 || resp.Items[0].Total != 125 {
		t.Errorf("unexpected response %+v", resp.Items)
	}
}
