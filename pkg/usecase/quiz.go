package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"text/template"

	"github.com/learnmap-dev/learnmap/pkg/domain/model"
	"github.com/learnmap-dev/learnmap/pkg/service/llm"
	"github.com/learnmap-dev/learnmap/pkg/utils/logging"
)

//go:embed prompt/quiz.md
var quizPromptTmpl string

var quizPrompt = template.Must(template.New("quiz").Parse(quizPromptTmpl))

// QuizUseCase generates multiple-choice quizzes. It is total: every call
// with a non-empty topic returns a usable quiz, falling back to
// deterministic placeholder questions when generation is unavailable or
// produces unusable output.
type QuizUseCase struct {
	generator llm.TextGenerator

	defaultDifficulty   string
	defaultNumQuestions int
}

func newQuizUseCase(generator llm.TextGenerator, difficulty string, numQuestions int) *QuizUseCase {
	return &QuizUseCase{
		generator:           generator,
		defaultDifficulty:   difficulty,
		defaultNumQuestions: numQuestions,
	}
}

// DefaultDifficulty returns the difficulty applied when a request omits one.
func (uc *QuizUseCase) DefaultDifficulty() string {
	return uc.defaultDifficulty
}

// DefaultNumQuestions returns the question count applied when a request
// omits one.
func (uc *QuizUseCase) DefaultNumQuestions() int {
	return uc.defaultNumQuestions
}

type quizPromptParams struct {
	Topic        string
	Difficulty   string
	NumQuestions int
}

// CreateQuiz builds a quiz on the topic. An empty difficulty takes the
// configured default, numQuestions < 0 is treated as zero, and zero
// questions skips generation entirely. Generation failures of any kind
// are absorbed into the placeholder fallback.
func (uc *QuizUseCase) CreateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) *model.Quiz {
	if difficulty == "" {
		difficulty = uc.defaultDifficulty
	}
	if numQuestions < 0 {
		numQuestions = 0
	}

	if uc.generator == nil || numQuestions == 0 {
		return model.NewFallbackQuiz(topic, difficulty, numQuestions)
	}

	quiz, err := uc.generate(ctx, topic, difficulty, numQuestions)
	if err != nil {
		logging.From(ctx).Warn("quiz generation failed, using fallback questions",
			"topic", topic,
			"error", err.Error(),
		)
		return model.NewFallbackQuiz(topic, difficulty, numQuestions)
	}

	return quiz
}

func (uc *QuizUseCase) generate(ctx context.Context, topic, difficulty string, numQuestions int) (*model.Quiz, error) {
	var buf bytes.Buffer
	if err := quizPrompt.Execute(&buf, quizPromptParams{
		Topic:        topic,
		Difficulty:   difficulty,
		NumQuestions: numQuestions,
	}); err != nil {
		return nil, err
	}

	raw, err := uc.generator.GenerateText(ctx, buf.String())
	if err != nil {
		return nil, err
	}

	var quiz model.Quiz
	if err := json.Unmarshal([]byte(llm.TrimFences(raw)), &quiz); err != nil {
		return nil, err
	}
	if err := quiz.Validate(numQuestions); err != nil {
		return nil, err
	}

	return &quiz, nil
}
