package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/assessly-hq/assessly-ai/internal/api"
	"github.com/assessly-hq/assessly-ai/internal/domain"
)

// ScoreService grades a batch of free-text answers.
type ScoreService interface {
	ScoreBatch(ctx context.Context, reqs []domain.ScoreRequest) ([]domain.ScoreResult, error)
}

// EvaluateHandler serves /evaluate-theoretical.
type EvaluateHandler struct {
	svc ScoreService
}

// NewEvaluateHandler creates a new EvaluateHandler instance
func NewEvaluateHandler(svc ScoreService) *EvaluateHandler {
	return &EvaluateHandler{svc: svc}
}

type EvaluateRequest struct {
	Questions json.RawMessage `json:"questions"`
}

// Evaluate grades every submitted answer and responds with one ScoreResult
// per input, as a JSON array in input order.
func (h *EvaluateHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// the payload must be a JSON array before any item is processed
	raw := bytes.TrimSpace(req.Questions)
	if len(raw) == 0 || raw[0] != '[' {
		api.HandleError(w, domain.ErrQuestionsNotArray)
		return
	}

	var questions []domain.ScoreRequest
	if err := json.Unmarshal(raw, &questions); err != nil {
		api.HandleError(w, domain.ErrQuestionsNotArray)
		return
	}

	results, err := h.svc.ScoreBatch(r.Context(), questions)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if results == nil {
		results = []domain.ScoreResult{}
	}
	api.JSON(w, http.StatusOK, results)
}
