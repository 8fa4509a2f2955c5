// Package extract prompts the generation capability for a fixed JSON schema
// and turns the (possibly malformed) output into a StructuredTest.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/assessly-hq/assessly-ai/internal/ai"
	"github.com/assessly-hq/assessly-ai/internal/domain"
	"github.com/assessly-hq/assessly-ai/internal/telemetry"
)

const (
	// extractionMaxTokens bounds the generated test JSON
	extractionMaxTokens = 4096
	// extractionTemperature is kept at zero for schema fidelity
	extractionTemperature = 0.0
)

const schemaInstruction = `You convert course material into a test definition.
From the document content below, produce a JSON object with exactly this shape and nothing else:

{
  "title": string,
  "description": string,
  "duration": integer (minutes),
  "questions": [
    {
      "content": string,
      "question_type": "MCQ" | "MSQ" | "Theoretical",
      "option_A": string,
      "option_B": string,
      "option_C": string,
      "option_D": string,
      "correct_option": string (e.g. "A", or "A,B" for MSQ),
      "marks": number,
      "tags": string (comma-separated topics)
    }
  ]
}

Options may be empty strings for Theoretical questions.
Respond with the JSON object only. No markdown, no commentary.`

// Extractor turns ingested document text into a StructuredTest.
type Extractor struct {
	provider ai.Provider
}

// NewExtractor creates an extractor backed by the given provider.
func NewExtractor(provider ai.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract sends one schema-constrained generation request, repairs the
// returned JSON and parses it. Irrecoverably malformed output fails with
// EXTRACTION_PARSE_ERROR; partial or default-filled tests are never returned.
func (e *Extractor) Extract(ctx context.Context, text string) (*domain.StructuredTest, error) {
	ctx, span := telemetry.StartSpan(ctx, "Extractor.Extract")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	prompt := fmt.Sprintf("%s\n\nDocument content:\n%s", schemaInstruction, text)

	raw, err := e.provider.Generate(ctx, prompt, ai.GenerateParams{
		MaxTokens:   extractionMaxTokens,
		Temperature: extractionTemperature,
	})
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "failed to generate test", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrNoGeneration
	}

	repaired, err := RepairJSON(raw)
	if err != nil {
		// raw model output stays in server logs only, never in the response
		log.Printf("extraction repair failed: %v; raw output: %q", err, raw)
		telemetry.CaptureError(ctx, domain.ErrExtractionParse)
		return nil, domain.ErrExtractionParse
	}

	var test domain.StructuredTest
	if err := json.Unmarshal([]byte(repaired), &test); err != nil {
		log.Printf("extraction parse failed: %v; repaired output: %q", err, repaired)
		return nil, domain.ErrExtractionParse
	}

	if err := checkShape(&test); err != nil {
		log.Printf("extraction shape check failed: %v", err)
		return nil, domain.ErrExtractionParse
	}
	return &test, nil
}

// checkShape verifies the parsed value approximately matches the schema.
// Deeper semantic validation of question correctness belongs to the caller.
func checkShape(test *domain.StructuredTest) error {
	if strings.TrimSpace(test.Title) == "" {
		return fmt.Errorf("missing title")
	}
	if len(test.Questions) == 0 {
		return fmt.Errorf("no questions")
	}
	for i, q := range test.Questions {
		if strings.TrimSpace(q.Content) == "" {
			return fmt.Errorf("question %d has no content", i)
		}
		if !q.QuestionType.IsValid() {
			return fmt.Errorf("question %d has unknown type %q", i, q.QuestionType)
		}
	}
	return nil
}
