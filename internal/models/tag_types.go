package models

import "time"

// Tag is the model for the 'tags' table. Tags attach many-to-many to items
// through the 'item_tags' join table.
type Tag struct {
	ID         string  `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	Type       string  `json:"type" db:"type"`
	Colour     string  `json:"colour" db:"colour"`
	TagGroupID *string `json:"tagGroupId,omitempty" db:"tag_group_id"`
}

// TagGroup is the model for the 'tag_groups' table, an n-ary tree of tag
// categories via ParentID.
type TagGroup struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *string   `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
