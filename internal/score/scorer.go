// Package score grades batches of free-text answers with the generation
// capability, normalizing every model reply into a bounded integer mark.
package score

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/assessly-hq/assessly-ai/internal/ai"
	"github.com/assessly-hq/assessly-ai/internal/domain"
	"github.com/assessly-hq/assessly-ai/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency bounds parallel grading calls per batch
	DefaultConcurrency = 4
	// DefaultMaxMarksCap is the sanity bound on per-question max marks
	DefaultMaxMarksCap = 100
	// gradeMaxTokens keeps the completion to a short numeric reply
	gradeMaxTokens = 16
	// gradeTemperature is kept at zero for reproducible grading
	gradeTemperature = 0.0
)

// Scorer grades answer batches against expected answers.
type Scorer struct {
	provider    ai.Provider
	concurrency int
	maxMarksCap float64
}

// NewScorer creates a scorer with the given per-batch concurrency limit and
// max-marks sanity bound. Zero values fall back to the defaults.
func NewScorer(provider ai.Provider, concurrency int, maxMarksCap float64) *Scorer {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if maxMarksCap <= 0 {
		maxMarksCap = DefaultMaxMarksCap
	}
	return &Scorer{provider: provider, concurrency: concurrency, maxMarksCap: maxMarksCap}
}

// ScoreBatch grades every request and returns one result per input, in input
// order. Items are independent: a provider failure on one item degrades that
// item to 0 marks while the rest of the batch completes.
func (s *Scorer) ScoreBatch(ctx context.Context, reqs []domain.ScoreRequest) ([]domain.ScoreResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "Scorer.ScoreBatch")
	defer span.End()

	for _, req := range reqs {
		if req.MaxMarks < 0 {
			return nil, domain.ErrNegativeMaxMarks
		}
		if req.MaxMarks > s.maxMarksCap {
			return nil, domain.ErrMaxMarksTooLarge
		}
	}

	results := make([]domain.ScoreResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, req := range reqs {
		results[i] = domain.ScoreResult{
			QuestionID: req.QuestionID,
			MaxMarks:   req.MaxMarks,
			Given:      req.Given,
		}

		// blank answers score 0 without a provider call
		if strings.TrimSpace(req.Given) == "" {
			continue
		}

		i, req := i, req
		g.Go(func() error {
			results[i].MarksAwarded = s.scoreOne(gctx, req)
			return nil
		})
	}

	// workers never return errors; per-item failures degrade to 0
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// scoreOne grades a single answer. Any failure, including provider errors
// and unparseable output, maps to 0.
func (s *Scorer) scoreOne(ctx context.Context, req domain.ScoreRequest) int {
	prompt := buildGradingPrompt(req)

	raw, err := s.provider.Generate(ctx, prompt, ai.GenerateParams{
		MaxTokens:   gradeMaxTokens,
		Temperature: gradeTemperature,
	})
	if err != nil {
		log.Printf("scoring failed for question %s, awarding 0: %v", req.QuestionID, err)
		return 0
	}

	return NormalizeMarks(raw, req.MaxMarks)
}

// NormalizeMarks parses the model reply as a number, clamps it into
// [0, maxMarks] and rounds to the nearest integer. Non-numeric output maps
// to 0.
func NormalizeMarks(raw string, maxMarks float64) int {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}

	if value < 0 {
		value = 0
	}
	if value > maxMarks {
		value = maxMarks
	}
	return int(math.Round(value))
}

func buildGradingPrompt(req domain.ScoreRequest) string {
	return fmt.Sprintf(`You are grading one answer on a test.

Question: %s
Expected answer: %s
Student answer: %s
Maximum marks: %g

Award a mark between 0 and %g based on how well the student answer matches the expected answer.
Reply with the numeric mark only. No words, no units, no explanation.`,
		req.Question, req.Expected, req.Given, req.MaxMarks, req.MaxMarks)
}
