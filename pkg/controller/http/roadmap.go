package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/learnmap-dev/learnmap/pkg/domain/model"
	"github.com/learnmap-dev/learnmap/pkg/usecase"
	"github.com/learnmap-dev/learnmap/pkg/utils/errutil"
)

type generateRoadmapRequest struct {
	Goal          string `json:"goal"`
	Background    string `json:"background"`
	DurationWeeks *int   `json:"duration_weeks"`
	UserEmail     string `json:"user_email"`
}

type generateRoadmapResponse struct {
	Roadmap *model.Roadmap `json:"roadmap"`
	Note    string         `json:"note,omitempty"`
	Warning string         `json:"warning,omitempty"`
}

func handleRoadmapError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrRoadmapNotFound):
		errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
	default:
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
	}
}

func generateRoadmapHandler(uc *usecase.RoadmapUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req generateRoadmapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}

		result, err := uc.Generate(ctx, usecase.GenerateInput{
			Goal:          req.Goal,
			Background:    req.Background,
			DurationWeeks: req.DurationWeeks,
			UserEmail:     req.UserEmail,
		})
		if err != nil {
			handleRoadmapError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, generateRoadmapResponse{
			Roadmap: result.Roadmap,
			Note:    result.Note,
			Warning: result.Warning,
		})
	}
}

func listRoadmapsHandler(uc *usecase.RoadmapUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userEmail := r.URL.Query().Get("user_email")
		roadmaps, err := uc.ListForUser(ctx, userEmail)
		if err != nil {
			handleRoadmapError(ctx, w, err)
			return
		}

		if roadmaps == nil {
			roadmaps = []*model.Roadmap{}
		}
		writeJSON(ctx, w, http.StatusOK, roadmaps)
	}
}

func getRoadmapHandler(uc *usecase.RoadmapUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := model.RoadmapID(chi.URLParam(r, "roadmapID"))
		userEmail := r.URL.Query().Get("user_email")

		roadmap, err := uc.GetByID(ctx, id, userEmail)
		if err != nil {
			handleRoadmapError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, roadmap)
	}
}

func deleteRoadmapHandler(uc *usecase.RoadmapUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := model.RoadmapID(chi.URLParam(r, "roadmapID"))
		userEmail := r.URL.Query().Get("user_email")

		if err := uc.DeleteByID(ctx, id, userEmail); err != nil {
			handleRoadmapError(ctx, w, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Roadmap deleted successfully",
		})
	}
}
