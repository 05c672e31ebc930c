package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/learnmap-dev/learnmap/pkg/domain/interfaces"
	"github.com/learnmap-dev/learnmap/pkg/domain/model"
)

type roadmapRepository struct {
	mu       sync.RWMutex
	roadmaps map[model.RoadmapID]*model.Roadmap
}

func newRoadmapRepository() *roadmapRepository {
	return &roadmapRepository{
		roadmaps: make(map[model.RoadmapID]*model.Roadmap),
	}
}

// copyRoadmap creates a deep copy so callers never share mutable state
// with the store.
func copyRoadmap(r *model.Roadmap) *model.Roadmap {
	copied := &model.Roadmap{
		ID:          r.ID,
		UserEmail:   r.UserEmail,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}

	if r.DurationWeeks != nil {
		weeks := *r.DurationWeeks
		copied.DurationWeeks = &weeks
	}

	if r.Data != nil {
		data := &model.Graph{
			Nodes: make([]model.Node, len(r.Data.Nodes)),
			Edges: make([]model.Edge, len(r.Data.Edges)),
		}
		copy(data.Edges, r.Data.Edges)
		for i, node := range r.Data.Nodes {
			n := node
			n.Resources = make([]string, len(node.Resources))
			copy(n.Resources, node.Resources)
			data.Nodes[i] = n
		}
		copied.Data = data
	}

	return copied
}

func (r *roadmapRepository) Create(ctx context.Context, roadmap *model.Roadmap) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roadmaps[roadmap.ID] = copyRoadmap(roadmap)
	return nil
}

func (r *roadmapRepository) ListByUser(ctx context.Context, userEmail string) ([]*model.Roadmap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Roadmap, 0)
	for _, roadmap := range r.roadmaps {
		if roadmap.UserEmail == userEmail {
			result = append(result, copyRoadmap(roadmap))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *roadmapRepository) GetByUser(ctx context.Context, id model.RoadmapID, userEmail string) (*model.Roadmap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roadmap, exists := r.roadmaps[id]
	if !exists || roadmap.UserEmail != userEmail {
		return nil, goerr.Wrap(interfaces.ErrRoadmapNotFound, "roadmap not found or access denied", goerr.V("id", id))
	}

	return copyRoadmap(roadmap), nil
}

func (r *roadmapRepository) DeleteByUser(ctx context.Context, id model.RoadmapID, userEmail string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roadmap, exists := r.roadmaps[id]
	if !exists || roadmap.UserEmail != userEmail {
		return 0, goerr.Wrap(interfaces.ErrRoadmapNotFound, "roadmap not found or access denied", goerr.V("id", id))
	}

	delete(r.roadmaps, id)
	return 1, nil
}
