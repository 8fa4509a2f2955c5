package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/assessly-hq/assessly-ai/internal/ai"
	"github.com/assessly-hq/assessly-ai/internal/api/handlers"
	"github.com/assessly-hq/assessly-ai/internal/config"
	"github.com/assessly-hq/assessly-ai/internal/extract"
	"github.com/assessly-hq/assessly-ai/internal/faq"
	"github.com/assessly-hq/assessly-ai/internal/ingest"
	"github.com/assessly-hq/assessly-ai/internal/jobs"
	"github.com/assessly-hq/assessly-ai/internal/score"
	"github.com/assessly-hq/assessly-ai/internal/server"
	"github.com/assessly-hq/assessly-ai/internal/telemetry"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the AI service",
		Long:  "Start the assessly AI service on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

// applyPortFlag lets an explicitly passed -p/--port override the configured
// port. Flags().Changed distinguishes an explicit value from the flag
// default, so -p 8080 overrides a config-supplied port too.
func applyPortFlag(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("port") {
		return
	}
	if port, err := cmd.Flags().GetString("port"); err == nil && port != "" {
		cfg.Port = port
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	applyPortFlag(cmd, cfg)

	provider := ai.NewOpenAIProvider(ai.OpenAIConfig{
		APIKey:         cfg.OpenAIAPIKey,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		ChatModel:      cfg.ChatModel,
		CallTimeout:    cfg.AITimeout,
	})

	source := faq.NewHTTPSource(cfg.FAQSourceURL, cfg.AITimeout)
	corpusIndex := faq.NewCorpusIndex(source, provider)

	// bootstrap load; a failure here is recoverable, the refresh worker and
	// the reload endpoint can fill the corpus later
	if err := corpusIndex.Reload(ctx); err != nil {
		log.Printf("initial corpus load failed, starting with empty corpus: %v", err)
	}

	refreshWorker := jobs.NewWorker(jobs.NewCorpusRefresher(corpusIndex), cfg.CorpusRefreshInterval)
	go refreshWorker.Start(ctx)
	log.Println("corpus refresh worker started")

	retriever := faq.NewRetriever(corpusIndex, provider, cfg.TopK)
	ingestor := ingest.NewIngestor(cfg.TokenBudget)
	extractor := extract.NewExtractor(provider)
	scorer := score.NewScorer(provider, cfg.ScoreConcurrency, cfg.MaxMarksCap)

	routerCfg := server.RouterConfig{
		FAQHandler:      handlers.NewFAQHandler(retriever, corpusIndex),
		ExtractHandler:  handlers.NewExtractHandler(ingestor, extractor),
		EvaluateHandler: handlers.NewEvaluateHandler(scorer),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	refreshWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
