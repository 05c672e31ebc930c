package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/learnmap-dev/learnmap/pkg/domain/model"
)

func TestQuizValidate(t *testing.T) {
	quiz := model.Quiz{
		Topic:      "Kubernetes",
		Difficulty: "medium",
		Questions: []model.Question{
			{ID: 1, Question: "What is a pod?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
		},
	}

	gt.NoError(t, quiz.Validate(1))
	gt.Error(t, quiz.Validate(2))

	missingTopic := quiz
	missingTopic.Topic = ""
	gt.Error(t, missingTopic.Validate(1))

	missingDifficulty := quiz
	missingDifficulty.Difficulty = ""
	gt.Error(t, missingDifficulty.Validate(1))
}

func TestNewFallbackQuiz(t *testing.T) {
	quiz := model.NewFallbackQuiz("Go", "easy", 3)

	gt.NoError(t, quiz.Validate(3))
	gt.Value(t, quiz.Topic).Equal("Go")
	gt.Value(t, quiz.Difficulty).Equal("easy")
	gt.Array(t, quiz.Questions).Length(3)

	second := quiz.Questions[1]
	gt.Value(t, second.ID).Equal(2)
	gt.Value(t, second.Question).Equal("Sample question 2 for Go?")
	gt.Array(t, second.Options).Length(model.QuizOptionCount)
	gt.Value(t, second.Options[0]).Equal("Option A 2")
	gt.Value(t, second.CorrectAnswer).Equal("Option A 2")
}

func TestNewFallbackQuizZeroQuestions(t *testing.T) {
	quiz := model.NewFallbackQuiz("Go", "easy", 0)

	gt.NoError(t, quiz.Validate(0))
	gt.Array(t, quiz.Questions).Length(0)
}
