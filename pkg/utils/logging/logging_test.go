package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/learnmap-dev/learnmap/pkg/utils/logging"
)

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := logging.With(t.Context(), logger)
	logging.From(ctx).Info("scoped message")

	gt.String(t, buf.String()).Contains("scoped message")
}

func TestFromWithoutLogger(t *testing.T) {
	// Falls back to the process default
	logger := logging.From(t.Context())
	gt.Value(t, logger == nil).Equal(false)
}
