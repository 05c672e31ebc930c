package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"strconv"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/learnmap-dev/learnmap/pkg/domain/interfaces"
	"github.com/learnmap-dev/learnmap/pkg/domain/model"
	"github.com/learnmap-dev/learnmap/pkg/service/archive"
	"github.com/learnmap-dev/learnmap/pkg/service/llm"
	"github.com/learnmap-dev/learnmap/pkg/utils/async"
)

//go:embed prompt/roadmap.md
var roadmapPromptTmpl string

var roadmapPrompt = template.Must(template.New("roadmap").Parse(roadmapPromptTmpl))

// roadmapGraphSchema is the shape a generated roadmap must satisfy before
// it reaches the rest of the system. Start/goal designation and edge
// referential integrity stay advisory.
var roadmapGraphSchema = &llm.Schema{
	Name: "roadmap-graph",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nodes": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":                map[string]any{"type": "string"},
						"title":             map[string]any{"type": "string"},
						"description":       map[string]any{"type": "string"},
						"recommended_weeks": map[string]any{"type": "integer"},
						"resources": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{"id", "title"},
				},
			},
			"edges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"from": map[string]any{"type": "string"},
						"to":   map[string]any{"type": "string"},
					},
					"required": []any{"from", "to"},
				},
			},
		},
		"required": []any{"nodes", "edges"},
	},
}

// RoadmapUseCase orchestrates roadmap generation and user-scoped access.
type RoadmapUseCase struct {
	stores    *stores
	generator llm.TextGenerator
	archive   *archive.Service
	now       func() time.Time
	newID     func() model.RoadmapID
}

func newRoadmapUseCase(stores *stores, generator llm.TextGenerator, archiveSvc *archive.Service, now func() time.Time, newID func() model.RoadmapID) *RoadmapUseCase {
	return &RoadmapUseCase{
		stores:    stores,
		generator: generator,
		archive:   archiveSvc,
		now:       now,
		newID:     newID,
	}
}

// GenerateInput is the validated request for roadmap generation.
type GenerateInput struct {
	Goal          string
	Background    string
	DurationWeeks *int
	UserEmail     string
}

// GenerateResult carries the created roadmap plus an advisory note or
// warning when the request was served through a degraded path. Degraded
// persistence is not an error: the generation result is still returned.
type GenerateResult struct {
	Roadmap *model.Roadmap
	Note    string
	Warning string
}

type roadmapPromptParams struct {
	Goal       string
	Background string
	Duration   string
}

func buildRoadmapPrompt(input GenerateInput) (string, error) {
	duration := "Not specified"
	if input.DurationWeeks != nil {
		duration = strconv.Itoa(*input.DurationWeeks)
	}

	var buf bytes.Buffer
	if err := roadmapPrompt.Execute(&buf, roadmapPromptParams{
		Goal:       input.Goal,
		Background: input.Background,
		Duration:   duration,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to build roadmap prompt")
	}

	return buf.String(), nil
}

// Generate creates a roadmap for the given goal and persists it. When the
// generative backend is absent entirely, a static fallback graph is
// returned with a note and nothing is persisted. A model call or parse
// failure is a generation error; it is reported once and never retried.
func (uc *RoadmapUseCase) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	if input.Goal == "" || input.Background == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "goal and background are required")
	}
	if input.UserEmail == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "user email is required")
	}

	if uc.generator == nil {
		roadmap := uc.newRoadmap(input, model.NewFallbackGraph(input.Goal, input.Background))
		return &GenerateResult{
			Roadmap: roadmap,
			Note:    "AI service not available; returned a basic fallback roadmap.",
		}, nil
	}

	prompt, err := buildRoadmapPrompt(input)
	if err != nil {
		return nil, err
	}

	raw, err := uc.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, goerr.Wrap(ErrGenerationFailed, "model call failed", goerr.V("cause", err.Error()))
	}

	if uc.archive != nil {
		archiveSvc := uc.archive
		name := uc.now().UTC().Format("20060102T150405.000000000")
		async.Dispatch(ctx, func(ctx context.Context) error {
			return archiveSvc.SaveResponse(ctx, name, raw)
		})
	}

	cleaned := llm.StripFences(raw)
	if err := roadmapGraphSchema.Validate([]byte(cleaned)); err != nil {
		return nil, goerr.Wrap(ErrGenerationFailed, "model returned an invalid roadmap", goerr.V("cause", err.Error()))
	}

	var graph model.Graph
	if err := llm.Unmarshal(cleaned, &graph); err != nil {
		return nil, goerr.Wrap(ErrGenerationFailed, "failed to decode roadmap graph", goerr.V("cause", err.Error()))
	}
	if err := graph.Validate(); err != nil {
		return nil, goerr.Wrap(ErrGenerationFailed, "model returned an invalid roadmap", goerr.V("cause", err.Error()))
	}

	roadmap := uc.newRoadmap(input, &graph)
	result := &GenerateResult{Roadmap: roadmap}

	repo, isPrimary := uc.stores.active(ctx)
	if isPrimary {
		if err := repo.Roadmap().Create(ctx, roadmap); err != nil {
			if fbErr := uc.stores.fallback.Roadmap().Create(ctx, roadmap); fbErr != nil {
				return nil, goerr.Wrap(fbErr, "failed to store roadmap after primary write failure", goerr.V(RoadmapIDKey, roadmap.ID))
			}
			result.Warning = "Database save failed, stored in memory fallback: " + err.Error()
		}
		return result, nil
	}

	if err := repo.Roadmap().Create(ctx, roadmap); err != nil {
		return nil, goerr.Wrap(err, "failed to store roadmap", goerr.V(RoadmapIDKey, roadmap.ID))
	}
	if uc.stores.configured() {
		result.Note = "Document store unreachable; using in-memory storage"
	} else {
		result.Note = "Document store not configured; using in-memory storage"
	}

	return result, nil
}

func (uc *RoadmapUseCase) newRoadmap(input GenerateInput, graph *model.Graph) *model.Roadmap {
	return &model.Roadmap{
		ID:            uc.newID(),
		UserEmail:     input.UserEmail,
		Title:         input.Goal,
		Description:   input.Background,
		DurationWeeks: input.DurationWeeks,
		CreatedAt:     uc.now().UTC(),
		Data:          graph,
	}
}

// ListForUser returns all roadmaps owned by the user, newest first,
// served from whichever store is currently active.
func (uc *RoadmapUseCase) ListForUser(ctx context.Context, userEmail string) ([]*model.Roadmap, error) {
	if userEmail == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "user email is required")
	}

	repo, _ := uc.stores.active(ctx)
	roadmaps, err := repo.Roadmap().ListByUser(ctx, userEmail)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list roadmaps", goerr.V(UserEmailKey, userEmail))
	}

	return roadmaps, nil
}

// GetByID returns the roadmap matching both ID and owner.
func (uc *RoadmapUseCase) GetByID(ctx context.Context, id model.RoadmapID, userEmail string) (*model.Roadmap, error) {
	if id == "" || userEmail == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "roadmap ID and user email are required")
	}

	repo, _ := uc.stores.active(ctx)
	roadmap, err := repo.Roadmap().GetByUser(ctx, id, userEmail)
	if err != nil {
		if errors.Is(err, interfaces.ErrRoadmapNotFound) {
			return nil, goerr.Wrap(ErrRoadmapNotFound, "roadmap not found", goerr.V(RoadmapIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get roadmap", goerr.V(RoadmapIDKey, id))
	}

	return roadmap, nil
}

// DeleteByID removes the roadmap matching both ID and owner. Existence is
// checked first; a delete that then affects no records contradicts the
// check and is surfaced as an internal failure rather than swallowed.
func (uc *RoadmapUseCase) DeleteByID(ctx context.Context, id model.RoadmapID, userEmail string) error {
	if id == "" || userEmail == "" {
		return goerr.Wrap(ErrInvalidRequest, "roadmap ID and user email are required")
	}

	repo, _ := uc.stores.active(ctx)
	if _, err := repo.Roadmap().GetByUser(ctx, id, userEmail); err != nil {
		if errors.Is(err, interfaces.ErrRoadmapNotFound) {
			return goerr.Wrap(ErrRoadmapNotFound, "roadmap not found", goerr.V(RoadmapIDKey, id))
		}
		return goerr.Wrap(err, "failed to check roadmap", goerr.V(RoadmapIDKey, id))
	}

	deleted, err := repo.Roadmap().DeleteByUser(ctx, id, userEmail)
	if err != nil {
		if errors.Is(err, interfaces.ErrRoadmapNotFound) {
			return goerr.Wrap(ErrRoadmapNotFound, "roadmap not found", goerr.V(RoadmapIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete roadmap", goerr.V(RoadmapIDKey, id))
	}
	if deleted == 0 {
		return goerr.New("roadmap existed but delete affected no records", goerr.V(RoadmapIDKey, id))
	}

	return nil
}
