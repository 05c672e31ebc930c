package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/learnmap-dev/learnmap/pkg/domain/interfaces"
)

// DefaultCollection is the collection roadmaps are stored in when no
// override is configured.
const DefaultCollection = "roadmaps"

type Firestore struct {
	client  *firestore.Client
	roadmap *roadmapRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollection overrides the roadmap collection name.
func WithCollection(name string) Option {
	return func(f *Firestore) {
		f.roadmap.collection = name
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:  client,
		roadmap: newRoadmapRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Roadmap() interfaces.RoadmapRepository {
	return f.roadmap
}

// Ping runs a minimal query against the roadmap collection to verify the
// backend is reachable. The client itself connects lazily, so creation
// alone does not prove reachability.
func (f *Firestore) Ping(ctx context.Context) error {
	iter := f.roadmap.roadmapsCollection().Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.GetAll(); err != nil {
		return goerr.Wrap(err, "failed to ping firestore")
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
