// Package ai defines the abstract provider capability every component talks
// to, plus the OpenAI-backed implementation. The provider is the single
// integration point with the external AI vendor.
package ai

import "context"

// GenerateParams bounds a generation call. Temperature is fixed low by
// callers that need reproducible output.
type GenerateParams struct {
	MaxTokens   int
	Temperature float32
}

// Provider exposes embedding and text generation.
//
// Query and document embeddings must come from the same embedding space;
// mismatched spaces produce meaningless similarity scores, so both methods
// are served by one configured model.
type Provider interface {
	// EmbedDocuments embeds a batch of corpus texts, preserving input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Generate returns the model's text completion for the prompt.
	Generate(ctx context.Context, prompt string, params GenerateParams) (string, error)
}
