// Package ingest turns an uploaded file into bounded plain text for the
// structured extractor. Dispatch is strictly by file extension through a
// strategy map, so new formats plug in without touching call sites.
package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/assessly-hq/assessly-ai/internal/domain"
)

// DefaultTokenBudget caps the text handed downstream. The bound applies to
// every ingestion path, CSV included.
const DefaultTokenBudget = 800

// Extractor extracts plain text from a spooled upload.
type Extractor interface {
	Extract(path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string) (string, error)

// Extract implements Extractor.
func (f ExtractorFunc) Extract(path string) (string, error) {
	return f(path)
}

// Ingestor dispatches uploads to per-format extraction strategies.
type Ingestor struct {
	strategies  map[string]Extractor
	tokenBudget int
}

// NewIngestor creates an ingestor with the default PDF, DOCX and CSV
// strategies.
func NewIngestor(tokenBudget int) *Ingestor {
	if tokenBudget <= 0 {
		tokenBudget = DefaultTokenBudget
	}
	return &Ingestor{
		strategies: map[string]Extractor{
			".pdf":  ExtractorFunc(extractPDF),
			".docx": ExtractorFunc(extractDOCX),
			".csv":  ExtractorFunc(extractCSV),
		},
		tokenBudget: tokenBudget,
	}
}

// Ingest spools the upload to a temporary file, runs the strategy for its
// extension, and returns the token-bounded text. The temporary file is
// removed on every path, including errors.
func (g *Ingestor) Ingest(ctx context.Context, filename string, file io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	strategy, ok := g.strategies[ext]
	if !ok {
		return "", domain.ErrUnsupportedFormat
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "assessly-upload-*"+ext)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to spool upload", err)
	}
	if err := tmp.Close(); err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to spool upload", err)
	}

	text, err := strategy.Extract(tmp.Name())
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to extract document text", err)
	}

	text = TruncateTokens(text, g.tokenBudget)
	if text == "" {
		return "", domain.ErrEmptyDocument
	}
	return text, nil
}

// TruncateTokens keeps the first limit whitespace-separated tokens of text,
// rejoined with single spaces.
func TruncateTokens(text string, limit int) string {
	tokens := strings.Fields(text)
	if limit > 0 && len(tokens) > limit {
		tokens = tokens[:limit]
	}
	return strings.Join(tokens, " ")
}
