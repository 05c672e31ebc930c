package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// QuizOptionCount is the number of options every quiz question carries.
const QuizOptionCount = 4

// Quiz is a generated multiple-choice quiz. It is transient and never
// persisted.
type Quiz struct {
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
}

// Question is a single 4-option multiple-choice question. CorrectAnswer
// must match one of Options verbatim.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Validate checks that the quiz carries topic, difficulty and exactly
// wantQuestions questions.
func (q *Quiz) Validate(wantQuestions int) error {
	if q.Topic == "" {
		return goerr.New("quiz topic is required")
	}
	if q.Difficulty == "" {
		return goerr.New("quiz difficulty is required")
	}
	if len(q.Questions) != wantQuestions {
		return goerr.New("unexpected question count",
			goerr.V("want", wantQuestions),
			goerr.V("got", len(q.Questions)),
		)
	}
	return nil
}

// NewFallbackQuiz synthesizes a deterministic placeholder quiz with
// numQuestions questions indexed 1..N. Each question has 4 labeled options
// and the first option as the correct answer, so the result always passes
// Validate.
func NewFallbackQuiz(topic, difficulty string, numQuestions int) *Quiz {
	questions := make([]Question, 0, numQuestions)
	for i := 1; i <= numQuestions; i++ {
		questions = append(questions, Question{
			ID:       i,
			Question: fmt.Sprintf("Sample question %d for %s?", i, topic),
			Options: []string{
				fmt.Sprintf("Option A %d", i),
				fmt.Sprintf("Option B %d", i),
				fmt.Sprintf("Option C %d", i),
				fmt.Sprintf("Option D %d", i),
			},
			CorrectAnswer: fmt.Sprintf("Option A %d", i),
		})
	}

	return &Quiz{
		Topic:      topic,
		Difficulty: difficulty,
		Questions:  questions,
	}
}
