// Package location resolves human-readable paths for the storage location
// tree. Locations form a forest: each row optionally points at a parent, and
// an item's full path is the chain of names from the root down to its shelf.
package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/CTroeung1/MSM-inventory-system/internal/models"
)

// ErrInvalidLocation is returned when a path walk hits an id with no row,
// either the starting location or a dangling parent reference.
var ErrInvalidLocation = errors.New("location is invalid")

// maxDepth caps the parent walk so a corrupted tree with a cycle cannot
// spin forever.
const maxDepth = 64

// Service reads the location tree.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// CollectPath walks from the given location up through its parents and joins
// the names root-first with "/". A missing location reports ErrInvalidLocation.
func (s *Service) CollectPath(ctx context.Context, locationID string) (string, error) {
	var names []string
	currentID := locationID

	for depth := 0; currentID != ""; depth++ {
		if depth >= maxDepth {
			return "", fmt.Errorf("location tree too deep at %s", locationID)
		}

		var loc models.Location
		var parentID sql.NullString
		err := s.db.QueryRowContext(ctx,
			`SELECT id, name, parent_id FROM locations WHERE id = ?`, currentID,
		).Scan(&loc.ID, &loc.Name, &parentID)
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidLocation
		}
		if err != nil {
			return "", fmt.Errorf("loading location %s: %w", currentID, err)
		}

		names = append(names, loc.Name)
		currentID = parentID.String
	}

	// The walk collects leaf-first; the path reads root-first.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/"), nil
}

// IsAncestor reports whether candidate appears anywhere on the parent chain
// above locationID. A location is not its own ancestor.
func (s *Service) IsAncestor(ctx context.Context, candidateID, locationID string) (bool, error) {
	currentID := locationID
	for depth := 0; currentID != ""; depth++ {
		if depth >= maxDepth {
			return false, fmt.Errorf("location tree too deep at %s", locationID)
		}

		var parentID sql.NullString
		err := s.db.QueryRowContext(ctx,
			`SELECT parent_id FROM locations WHERE id = ?`, currentID,
		).Scan(&parentID)
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrInvalidLocation
		}
		if err != nil {
			return false, fmt.Errorf("loading location %s: %w", currentID, err)
		}

		if parentID.String == candidateID && parentID.Valid {
			return true, nil
		}
		currentID = parentID.String
	}
	return false, nil
}
