package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY" required:"true"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`

	FAQSourceURL string `envconfig:"FAQ_SOURCE_URL" required:"true"`

	AITimeout             time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
	CorpusRefreshInterval time.Duration `envconfig:"CORPUS_REFRESH_INTERVAL" default:"10m"`
	TokenBudget           int           `envconfig:"TOKEN_BUDGET" default:"800"`
	TopK                  int           `envconfig:"TOP_K" default:"3"`
	ScoreConcurrency      int           `envconfig:"SCORE_CONCURRENCY" default:"4"`
	MaxMarksCap           float64       `envconfig:"MAX_MARKS_CAP" default:"100"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ASSESSLY", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
