package archive

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/learnmap-dev/learnmap/pkg/utils/safe"
)

// Service writes raw model responses to a Cloud Storage bucket so failed
// or suspicious generations can be inspected offline. It is optional;
// a nil *Service disables archiving.
type Service struct {
	client *storage.Client
	bucket string
}

func New(ctx context.Context, bucket string) (*Service, error) {
	if bucket == "" {
		return nil, goerr.New("archive bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &Service{
		client: client,
		bucket: bucket,
	}, nil
}

// SaveResponse stores the raw response text under responses/<name>.txt.
func (s *Service) SaveResponse(ctx context.Context, name, raw string) error {
	obj := s.client.Bucket(s.bucket).Object(fmt.Sprintf("responses/%s.txt", name))

	w := obj.NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"

	if _, err := w.Write([]byte(raw)); err != nil {
		safe.Close(ctx, w)
		return goerr.Wrap(err, "failed to write archived response", goerr.V("name", name))
	}

	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize archived response", goerr.V("name", name))
	}

	return nil
}

func (s *Service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
