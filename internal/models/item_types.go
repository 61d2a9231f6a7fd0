package models

import "time"

// Item is the model for the 'items' table. An item is either a discrete
// loanable asset or consumable stock; consumable items own exactly one
// Consumable row keyed by item id.
type Item struct {
	ID         string    `json:"id" db:"id"`
	Serial     string    `json:"serial" db:"serial"`
	Name       string    `json:"name" db:"name"`
	LocationID string    `json:"locationId" db:"location_id"`
	Stored     bool      `json:"stored" db:"stored"`
	Cost       int       `json:"cost" db:"cost"`
	Deleted    bool      `json:"deleted" db:"deleted"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`

	// Loaded relations (optional)
	Consumable *Consumable  `json:"consumable,omitempty" db:"-"`
	Location   *Location    `json:"location,omitempty" db:"-"`
	Tags       []Tag        `json:"tags,omitempty" db:"-"`
	Records    []ItemRecord `json:"itemRecords,omitempty" db:"-"`
}

// Consumable is the stock-tracking extension of a consumable item.
// Invariant: total >= available >= 0 (available >= 0 is enforced by the
// schema; total >= available is enforced on input, since check-in may push
// available past total transiently when stock was restocked mid-loan).
type Consumable struct {
	ItemID    string `json:"itemId" db:"item_id"`
	Available int    `json:"available" db:"available"`
	Total     int    `json:"total" db:"total"`
}

// ItemRecord is one append-only audit-trail entry. The most recent record of
// an asset determines its loan state; records are never updated or deleted.
type ItemRecord struct {
	ID             string    `json:"id" db:"id"`
	ItemID         string    `json:"itemId" db:"item_id"`
	ActionByUserID string    `json:"actionByUserId" db:"action_by_user_id"`
	Loaned         bool      `json:"loaned" db:"loaned"`
	Quantity       int       `json:"quantity" db:"quantity"`
	Notes          string    `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
