package memory

import (
	"context"

	"github.com/learnmap-dev/learnmap/pkg/domain/interfaces"
)

// Memory is an in-process repository used as the development backend and
// as the fallback store when the document database is unreachable.
// Contents are lost when the process exits.
type Memory struct {
	roadmap *roadmapRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		roadmap: newRoadmapRepository(),
	}
}

func (m *Memory) Roadmap() interfaces.RoadmapRepository {
	return m.roadmap
}

// Ping always succeeds; the in-memory store has no remote dependency.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return nil
}
