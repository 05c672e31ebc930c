package llm

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// TextGenerator produces free-form text for a prompt. A nil TextGenerator
// means the generative capability is absent (e.g. missing credentials),
// which callers treat as a degrade-to-fallback condition rather than an
// error.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type gollemGenerator struct {
	client gollem.LLMClient
}

// NewTextGenerator wraps a gollem LLM client as a TextGenerator.
func NewTextGenerator(client gollem.LLMClient) (TextGenerator, error) {
	if client == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &gollemGenerator{client: client}, nil
}

func (g *gollemGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	session, err := g.client.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}

	if len(resp.Texts) == 0 {
		return "", goerr.New("empty response from LLM")
	}

	return resp.Texts[0], nil
}
