package usecase

import (
	"time"

	"github.com/learnmap-dev/learnmap/pkg/domain/interfaces"
	"github.com/learnmap-dev/learnmap/pkg/domain/model"
	"github.com/learnmap-dev/learnmap/pkg/service/archive"
	"github.com/learnmap-dev/learnmap/pkg/service/llm"
)

const (
	defaultQuizDifficulty   = "medium"
	defaultQuizNumQuestions = 10
)

type UseCases struct {
	connect   ConnectFunc
	generator llm.TextGenerator
	archive   *archive.Service

	quizDifficulty   string
	quizNumQuestions int

	now   func() time.Time
	newID func() model.RoadmapID

	Roadmap *RoadmapUseCase
	Quiz    *QuizUseCase
}

type Option func(*UseCases)

// WithPrimaryStore configures the lazy connector for the primary document
// store. Without it, all roadmaps live in the in-memory fallback.
func WithPrimaryStore(connect ConnectFunc) Option {
	return func(uc *UseCases) {
		uc.connect = connect
	}
}

// WithGenerator sets the generative backend. A nil generator leaves the
// roadmap service on its static fallback graph and the quiz service on
// its deterministic fallback.
func WithGenerator(generator llm.TextGenerator) Option {
	return func(uc *UseCases) {
		uc.generator = generator
	}
}

// WithArchive enables archiving of raw model responses.
func WithArchive(svc *archive.Service) Option {
	return func(uc *UseCases) {
		uc.archive = svc
	}
}

// WithQuizDefaults overrides the default quiz difficulty and question
// count applied when a request omits them.
func WithQuizDefaults(difficulty string, numQuestions int) Option {
	return func(uc *UseCases) {
		if difficulty != "" {
			uc.quizDifficulty = difficulty
		}
		if numQuestions > 0 {
			uc.quizNumQuestions = numQuestions
		}
	}
}

// WithClock overrides the timestamp source (tests only).
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

// WithIDSource overrides roadmap ID generation (tests only).
func WithIDSource(newID func() model.RoadmapID) Option {
	return func(uc *UseCases) {
		uc.newID = newID
	}
}

func New(fallback interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		quizDifficulty:   defaultQuizDifficulty,
		quizNumQuestions: defaultQuizNumQuestions,
		now:              time.Now,
		newID:            model.NewRoadmapID,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Roadmap = newRoadmapUseCase(newStores(fallback, uc.connect), uc.generator, uc.archive, uc.now, uc.newID)
	uc.Quiz = newQuizUseCase(uc.generator, uc.quizDifficulty, uc.quizNumQuestions)

	return uc
}

// Close releases the primary store connection if one was established.
func (uc *UseCases) Close() error {
	return uc.Roadmap.stores.Close()
}
