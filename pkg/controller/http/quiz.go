package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/learnmap-dev/learnmap/pkg/usecase"
	"github.com/learnmap-dev/learnmap/pkg/utils/errutil"
)

type generateQuizRequest struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions *int   `json:"num_questions"`
}

func generateQuizHandler(uc *usecase.QuizUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req generateQuizRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		if req.Topic == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("topic is required"), http.StatusBadRequest)
			return
		}

		numQuestions := uc.DefaultNumQuestions()
		if req.NumQuestions != nil {
			numQuestions = *req.NumQuestions
		}

		quiz := uc.CreateQuiz(ctx, req.Topic, req.Difficulty, numQuestions)
		writeJSON(ctx, w, http.StatusOK, quiz)
	}
}
