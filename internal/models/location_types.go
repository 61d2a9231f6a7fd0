package models

import "time"

// Location is the model for the 'locations' table.
// Locations form a tree via ParentID; the full storage path of an item is
// derived by walking parents up to the root.
type Location struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *string   `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
