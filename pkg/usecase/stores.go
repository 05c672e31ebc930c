package usecase

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/learnmap-dev/learnmap/pkg/domain/interfaces"
	"github.com/learnmap-dev/learnmap/pkg/utils/logging"
)

// ConnectFunc lazily establishes a connection to the primary document
// store. It must be safe to call repeatedly; a returned error means the
// store is currently unreachable.
type ConnectFunc func(ctx context.Context) (interfaces.Repository, error)

// stores holds the persistence duality: a primary document store that is
// connected lazily, and an in-process fallback that serves whenever the
// primary is not configured or not reachable. A roadmap lives in exactly
// one of the two for its lifetime.
type stores struct {
	fallback interfaces.Repository
	connect  ConnectFunc

	mu      sync.RWMutex
	primary interfaces.Repository
	group   singleflight.Group
}

func newStores(fallback interfaces.Repository, connect ConnectFunc) *stores {
	return &stores{
		fallback: fallback,
		connect:  connect,
	}
}

// active returns the repository that serves the current request and
// whether it is the primary document store. When the primary is not yet
// connected, one connect attempt is made; concurrent attempts are
// collapsed through singleflight so redundant reconnects stay idempotent.
// A failed attempt routes the request to the fallback without blocking it.
func (s *stores) active(ctx context.Context) (interfaces.Repository, bool) {
	s.mu.RLock()
	primary := s.primary
	s.mu.RUnlock()

	if primary != nil {
		return primary, true
	}
	if s.connect == nil {
		return s.fallback, false
	}

	repo, err, _ := s.group.Do("connect", func() (any, error) {
		s.mu.RLock()
		connected := s.primary
		s.mu.RUnlock()
		if connected != nil {
			return connected, nil
		}

		r, err := s.connect(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.primary = r
		s.mu.Unlock()
		return r, nil
	})
	if err != nil {
		logging.From(ctx).Warn("document store unreachable, using in-memory fallback", "error", err.Error())
		return s.fallback, false
	}

	return repo.(interfaces.Repository), true
}

// configured reports whether a primary store was configured at all,
// regardless of reachability.
func (s *stores) configured() bool {
	return s.connect != nil
}

func (s *stores) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.primary != nil {
		return s.primary.Close()
	}
	return nil
}
