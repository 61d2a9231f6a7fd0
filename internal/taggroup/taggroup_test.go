package taggroup

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/CTroeung1/MSM-inventory-system/internal/database"
	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

func seedTagGroup(t *testing.T, db *sql.DB, name string, parentID *string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO tag_groups (id, name, parent_id, created_at) VALUES (?, ?, ?, ?)`,
		id, name, parentID, time.Now().UTC())
	if err != nil {
		t.Fatalf("seeding tag group %q: %v", name, err)
	}
	return id
}

// seedTree builds:
//
//	root
//	├── left
//	│   └── leaf
//	└── right
func seedTree(t *testing.T, db *sql.DB) (root, left, right, leaf string) {
	t.Helper()
	root = seedTagGroup(t, db, "root", nil)
	left = seedTagGroup(t, db, "left", &root)
	right = seedTagGroup(t, db, "right", &root)
	leaf = seedTagGroup(t, db, "leaf", &left)
	return root, left, right, leaf
}

func TestCollectDescendants(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)
	root, left, _, leaf := seedTree(t, db)

	nodes, err := svc.CollectDescendants(context.Background(), root)
	if err != nil {
		t.Fatalf("CollectDescendants: %v", err)
	}
	if len(nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(nodes))
	}
	if nodes[0].ID != root {
		t.Errorf("expected the parent itself first, got %s", nodes[0].ID)
	}

	nodes, err = svc.CollectDescendants(context.Background(), left)
	if err != nil {
		t.Fatalf("CollectDescendants: %v", err)
	}
	if len(nodes) != 2 || nodes[1].ID != leaf {
		t.Errorf("expected left subtree [left leaf], got %+v", nodes)
	}
}

func TestIsDescendant(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	root, left, right, leaf := seedTree(t, db)

	cases := []struct {
		name           string
		rootID, target string
		want           bool
	}{
		{"direct child", root, left, true},
		{"grandchild", root, leaf, true},
		{"sibling", left, right, false},
		{"self", root, root, false},
		{"inverted", leaf, root, false},
	}
	for _, tc := range cases {
		got, err := svc.IsDescendant(ctx, tc.rootID, tc.target)
		if err != nil {
			t.Fatalf("%s: IsDescendant: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: IsDescendant = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTraverseFromParentEarlyStop(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)
	root, _, _, _ := seedTree(t, db)

	visited := 0
	err := svc.TraverseFromParent(context.Background(), root, func(node models.TagGroup) (bool, error) {
		visited++
		return false, nil
	})
	if err != nil {
		t.Fatalf("TraverseFromParent: %v", err)
	}
	if visited != 1 {
		t.Errorf("expected the walk to stop after the first node, visited %d", visited)
	}
}

func TestTraverseFromParentMissingRoot(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)

	visited := 0
	err := svc.TraverseFromParent(context.Background(), uuid.NewString(), func(node models.TagGroup) (bool, error) {
		visited++
		return true, nil
	})
	if err != nil {
		t.Fatalf("TraverseFromParent: %v", err)
	}
	if visited != 0 {
		t.Errorf("missing root must visit nothing, visited %d", visited)
	}
}

func TestTraverseToRoot(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewService(db)
	_, _, _, leaf := seedTree(t, db)

	var names []string
	err := svc.TraverseToRoot(context.Background(), leaf, func(node models.TagGroup) (bool, error) {
		names = append(names, node.Name)
		return true, nil
	})
	if err != nil {
		t.Fatalf("TraverseToRoot: %v", err)
	}
	want := []string{"leaf", "left", "root"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}
