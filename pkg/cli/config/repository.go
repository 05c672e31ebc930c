package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/learnmap-dev/learnmap/pkg/domain/interfaces"
	"github.com/learnmap-dev/learnmap/pkg/repository/firestore"
	"github.com/learnmap-dev/learnmap/pkg/utils/logging"
)

// Repository holds CLI flags for the primary document store. The store is
// optional: without a project ID the service runs entirely on the
// in-memory fallback.
type Repository struct {
	backend    string
	projectID  string
	databaseID string
	collection string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (firestore or memory)",
			Value:       "firestore",
			Sources:     cli.EnvVars("LEARNMAP_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (omit to run on the in-memory store)",
			Sources:     cli.EnvVars("LEARNMAP_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("LEARNMAP_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection for roadmaps",
			Value:       firestore.DefaultCollection,
			Sources:     cli.EnvVars("LEARNMAP_FIRESTORE_COLLECTION"),
			Destination: &r.collection,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// Connector returns a lazy connect function for the primary store, or nil
// when no primary store is configured. Each invocation dials Firestore and
// verifies reachability; the caller owns the returned repository.
func (r *Repository) Connector() (func(ctx context.Context) (interfaces.Repository, error), error) {
	switch r.backend {
	case "memory":
		logging.Default().Info("Using in-memory repository (development mode)")
		return nil, nil

	case "firestore":
		if r.projectID == "" {
			logging.Default().Info("Firestore project not configured, using in-memory repository")
			return nil, nil
		}

		projectID := r.projectID
		databaseID := r.databaseID
		collection := r.collection

		return func(ctx context.Context) (interfaces.Repository, error) {
			repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollection(collection))
			if err != nil {
				return nil, goerr.Wrap(err, "failed to initialize firestore repository")
			}
			if err := repo.Ping(ctx); err != nil {
				_ = repo.Close()
				return nil, goerr.Wrap(err, "firestore is not reachable", goerr.V("project_id", projectID))
			}

			logging.Default().Info("Connected to Firestore repository",
				"project_id", projectID,
				"database_id", databaseID,
				"collection", collection,
			)
			return repo, nil
		}, nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
