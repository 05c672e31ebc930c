package llm_test

import (
	"os"
	"testing"

	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"

	"github.com/learnmap-dev/learnmap/pkg/service/llm"
)

func TestNewTextGeneratorRequiresClient(t *testing.T) {
	_, err := llm.NewTextGenerator(nil)
	gt.Error(t, err)
}

func TestGenerateTextWithGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT is not set")
	}
	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		location = "us-central1"
	}

	ctx := t.Context()
	client, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	generator, err := llm.NewTextGenerator(client)
	gt.NoError(t, err).Required()

	text, err := generator.GenerateText(ctx, "Reply with the single word: pong")
	gt.NoError(t, err).Required()
	gt.String(t, text).NotEqual("")
}
