package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/learnmap-dev/learnmap/pkg/domain/model"
)

// ErrRoadmapNotFound is returned by repositories when no roadmap matches
// both the requested ID and the requesting user. A roadmap owned by a
// different user is indistinguishable from a missing one.
var ErrRoadmapNotFound = goerr.New("roadmap not found")

// RoadmapRepository defines the interface for Roadmap data access.
// All reads and deletes are scoped by the owning user's email.
type RoadmapRepository interface {
	// Create stores a new roadmap keyed by its generated ID
	Create(ctx context.Context, roadmap *model.Roadmap) error

	// ListByUser retrieves all roadmaps owned by the user, newest first
	ListByUser(ctx context.Context, userEmail string) ([]*model.Roadmap, error)

	// GetByUser retrieves a roadmap matching both ID and owner
	GetByUser(ctx context.Context, id model.RoadmapID, userEmail string) (*model.Roadmap, error)

	// DeleteByUser deletes a roadmap matching both ID and owner, returning
	// the number of records removed
	DeleteByUser(ctx context.Context, id model.RoadmapID, userEmail string) (int, error)
}

// Repository defines the interface for data persistence backends.
type Repository interface {
	Roadmap() RoadmapRepository

	// Ping verifies the backend is reachable
	Ping(ctx context.Context) error

	Close() error
}
