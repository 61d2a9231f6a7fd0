// Package taggroup walks the tag group n-ary tree. Tag groups nest
// arbitrarily deep and reparenting must never produce a cycle, so the
// handlers lean on IsDescendant before moving a subtree.
package taggroup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

// ErrNotFound is returned when a walk starts from an id with no row.
var ErrNotFound = errors.New("tag group not found")

// VisitFunc receives each visited node. Returning false stops the walk early.
type VisitFunc func(node models.TagGroup) (bool, error)

// Service reads the tag group tree.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) load(ctx context.Context, id string) (models.TagGroup, error) {
	var tg models.TagGroup
	var parentID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, parent_id, created_at FROM tag_groups WHERE id = ?`, id,
	).Scan(&tg.ID, &tg.Name, &parentID, &tg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return tg, ErrNotFound
	}
	if err != nil {
		return tg, fmt.Errorf("loading tag group %s: %w", id, err)
	}
	if parentID.Valid {
		tg.ParentID = &parentID.String
	}
	return tg, nil
}

func (s *Service) children(ctx context.Context, parentID string) ([]models.TagGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, parent_id, created_at FROM tag_groups WHERE parent_id = ?`, parentID)
	if err != nil {
		return nil, fmt.Errorf("loading children of %s: %w", parentID, err)
	}
	defer rows.Close()

	var out []models.TagGroup
	for rows.Next() {
		var tg models.TagGroup
		var pid sql.NullString
		if err := rows.Scan(&tg.ID, &tg.Name, &pid, &tg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag group: %w", err)
		}
		if pid.Valid {
			tg.ParentID = &pid.String
		}
		out = append(out, tg)
	}
	return out, rows.Err()
}

// TraverseFromParent visits rootID and every descendant breadth-first.
// A missing root is a no-op, matching the lenient read side of the tree.
func (s *Service) TraverseFromParent(ctx context.Context, rootID string, visit VisitFunc) error {
	root, err := s.load(ctx, rootID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	queue := []models.TagGroup{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		cont, err := visit(node)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}

		kids, err := s.children(ctx, node.ID)
		if err != nil {
			return err
		}
		queue = append(queue, kids...)
	}
	return nil
}

// IsDescendant reports whether targetID sits anywhere below rootID. A group
// is not its own descendant.
func (s *Service) IsDescendant(ctx context.Context, rootID, targetID string) (bool, error) {
	if rootID == targetID {
		return false, nil
	}

	found := false
	err := s.TraverseFromParent(ctx, rootID, func(node models.TagGroup) (bool, error) {
		if node.ID == targetID {
			found = true
			return false, nil
		}
		return true, nil
	})
	return found, err
}

// CollectDescendants returns the subtree rooted at parentID, parent included,
// in breadth-first order.
func (s *Service) CollectDescendants(ctx context.Context, parentID string) ([]models.TagGroup, error) {
	var out []models.TagGroup
	err := s.TraverseFromParent(ctx, parentID, func(node models.TagGroup) (bool, error) {
		out = append(out, node)
		return true, nil
	})
	return out, err
}

// TraverseToRoot visits startID and every ancestor up to the root. Unlike the
// downward walk, a missing node here is an error: a dangling parent pointer
// means the tree is corrupt.
func (s *Service) TraverseToRoot(ctx context.Context, startID string, visit VisitFunc) error {
	currentID := startID
	for currentID != "" {
		node, err := s.load(ctx, currentID)
		if err != nil {
			return err
		}

		cont, err := visit(node)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}

		if node.ParentID == nil {
			return nil
		}
		currentID = *node.ParentID
	}
	return nil
}
