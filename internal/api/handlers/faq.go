package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/assessly-hq/assessly-ai/internal/api"
	"github.com/assessly-hq/assessly-ai/internal/domain"
)

// FAQService answers user questions grounded on the FAQ corpus.
type FAQService interface {
	Answer(ctx context.Context, question string) (string, error)
}

// CorpusReloader rebuilds the FAQ corpus snapshot on demand.
type CorpusReloader interface {
	Reload(ctx context.Context) error
}

// FAQHandler serves /faq-chat and /faq-corpus/reload.
type FAQHandler struct {
	svc   FAQService
	index CorpusReloader
}

// NewFAQHandler creates a new FAQHandler instance
func NewFAQHandler(svc FAQService, index CorpusReloader) *FAQHandler {
	return &FAQHandler{svc: svc, index: index}
}

type FAQChatRequest struct {
	Question string `json:"question"`
}

type FAQChatResponse struct {
	Answer string `json:"answer"`
}

// Chat answers one user question from the FAQ corpus.
func (h *FAQHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req FAQChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// reject before any embedding call is made
	if strings.TrimSpace(req.Question) == "" {
		api.HandleError(w, domain.ErrEmptyQuestion)
		return
	}

	answer, err := h.svc.Answer(r.Context(), req.Question)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, FAQChatResponse{Answer: answer})
}

// ReloadCorpus rebuilds the corpus snapshot. A failed rebuild reports 500 to
// the caller but leaves the serving snapshot as it was.
func (h *FAQHandler) ReloadCorpus(w http.ResponseWriter, r *http.Request) {
	if err := h.index.Reload(r.Context()); err != nil {
		api.Error(w, http.StatusInternalServerError, "corpus reload failed")
		return
	}

	api.JSON(w, http.StatusAccepted, map[string]string{"status": "reloaded"})
}
