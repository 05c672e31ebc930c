package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/learnmap-dev/learnmap/pkg/domain/interfaces"
	"github.com/learnmap-dev/learnmap/pkg/domain/model"
)

// roadmapDoc is the Firestore document representation of model.Roadmap.
// The document ID equals the roadmap ID, so no database-native reference
// ever reaches a caller.
type roadmapDoc struct {
	ID            model.RoadmapID `firestore:"id"`
	UserEmail     string          `firestore:"user_email"`
	Title         string          `firestore:"title"`
	Description   string          `firestore:"description"`
	DurationWeeks *int            `firestore:"duration_weeks"`
	CreatedAt     time.Time       `firestore:"created_at"`
	Nodes         []nodeDoc       `firestore:"nodes"`
	Edges         []edgeDoc       `firestore:"edges"`
}

type nodeDoc struct {
	ID               string   `firestore:"id"`
	Title            string   `firestore:"title"`
	Description      string   `firestore:"description"`
	RecommendedWeeks int      `firestore:"recommended_weeks"`
	Resources        []string `firestore:"resources"`
}

type edgeDoc struct {
	From string `firestore:"from"`
	To   string `firestore:"to"`
}

func toRoadmapDoc(r *model.Roadmap) *roadmapDoc {
	doc := &roadmapDoc{
		ID:            r.ID,
		UserEmail:     r.UserEmail,
		Title:         r.Title,
		Description:   r.Description,
		DurationWeeks: r.DurationWeeks,
		CreatedAt:     r.CreatedAt,
	}
	if r.Data != nil {
		doc.Nodes = make([]nodeDoc, len(r.Data.Nodes))
		for i, node := range r.Data.Nodes {
			doc.Nodes[i] = nodeDoc{
				ID:               node.ID,
				Title:            node.Title,
				Description:      node.Description,
				RecommendedWeeks: node.RecommendedWeeks,
				Resources:        node.Resources,
			}
		}
		doc.Edges = make([]edgeDoc, len(r.Data.Edges))
		for i, edge := range r.Data.Edges {
			doc.Edges[i] = edgeDoc{From: edge.From, To: edge.To}
		}
	}
	return doc
}

func fromRoadmapDoc(d *roadmapDoc) *model.Roadmap {
	roadmap := &model.Roadmap{
		ID:            d.ID,
		UserEmail:     d.UserEmail,
		Title:         d.Title,
		Description:   d.Description,
		DurationWeeks: d.DurationWeeks,
		CreatedAt:     d.CreatedAt,
		Data: &model.Graph{
			Nodes: make([]model.Node, len(d.Nodes)),
			Edges: make([]model.Edge, len(d.Edges)),
		},
	}
	for i, node := range d.Nodes {
		roadmap.Data.Nodes[i] = model.Node{
			ID:               node.ID,
			Title:            node.Title,
			Description:      node.Description,
			RecommendedWeeks: node.RecommendedWeeks,
			Resources:        node.Resources,
		}
	}
	for i, edge := range d.Edges {
		roadmap.Data.Edges[i] = model.Edge{From: edge.From, To: edge.To}
	}
	return roadmap
}

func docToRoadmap(doc *firestore.DocumentSnapshot) (*model.Roadmap, error) {
	var d roadmapDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromRoadmapDoc(&d), nil
}

type roadmapRepository struct {
	client     *firestore.Client
	collection string
}

func newRoadmapRepository(client *firestore.Client) *roadmapRepository {
	return &roadmapRepository{
		client:     client,
		collection: DefaultCollection,
	}
}

func (r *roadmapRepository) roadmapsCollection() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *roadmapRepository) Create(ctx context.Context, roadmap *model.Roadmap) error {
	docRef := r.roadmapsCollection().Doc(roadmap.ID.String())
	if _, err := docRef.Set(ctx, toRoadmapDoc(roadmap)); err != nil {
		return goerr.Wrap(err, "failed to create roadmap", goerr.V("id", roadmap.ID))
	}
	return nil
}

func (r *roadmapRepository) ListByUser(ctx context.Context, userEmail string) ([]*model.Roadmap, error) {
	iter := r.roadmapsCollection().
		Where("user_email", "==", userEmail).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	roadmaps := make([]*model.Roadmap, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate roadmaps", goerr.V("user_email", userEmail))
		}

		roadmap, err := docToRoadmap(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal roadmap")
		}

		roadmaps = append(roadmaps, roadmap)
	}

	return roadmaps, nil
}

// getOwned fetches a roadmap document and verifies ownership. A missing
// document and an ownership mismatch are both reported as not found so a
// caller cannot probe for other users' roadmap IDs.
func (r *roadmapRepository) getOwned(ctx context.Context, id model.RoadmapID, userEmail string) (*model.Roadmap, error) {
	doc, err := r.roadmapsCollection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrRoadmapNotFound, "roadmap not found or access denied", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get roadmap", goerr.V("id", id))
	}

	roadmap, err := docToRoadmap(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal roadmap", goerr.V("id", id))
	}

	if roadmap.UserEmail != userEmail {
		return nil, goerr.Wrap(interfaces.ErrRoadmapNotFound, "roadmap not found or access denied", goerr.V("id", id))
	}

	return roadmap, nil
}

func (r *roadmapRepository) GetByUser(ctx context.Context, id model.RoadmapID, userEmail string) (*model.Roadmap, error) {
	return r.getOwned(ctx, id, userEmail)
}

func (r *roadmapRepository) DeleteByUser(ctx context.Context, id model.RoadmapID, userEmail string) (int, error) {
	if _, err := r.getOwned(ctx, id, userEmail); err != nil {
		return 0, err
	}

	if _, err := r.roadmapsCollection().Doc(id.String()).Delete(ctx); err != nil {
		return 0, goerr.Wrap(err, "failed to delete roadmap", goerr.V("id", id))
	}

	return 1, nil
}
