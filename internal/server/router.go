package server

import (
	"net/http"

	"github.com/assessly-hq/assessly-ai/internal/api"
	"github.com/assessly-hq/assessly-ai/internal/api/handlers"
	"github.com/assessly-hq/assessly-ai/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	FAQHandler      *handlers.FAQHandler
	ExtractHandler  *handlers.ExtractHandler
	EvaluateHandler *handlers.EvaluateHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 10 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("assessly-ai is running"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/faq-chat", cfg.FAQHandler.Chat)
	r.Post("/faq-corpus/reload", cfg.FAQHandler.ReloadCorpus)
	r.Post("/extract", cfg.ExtractHandler.Extract)
	r.Post("/evaluate-theoretical", cfg.EvaluateHandler.Evaluate)

	return r
}
