package faq

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/assessly-hq/assessly-ai/internal/ai"
	"github.com/assessly-hq/assessly-ai/internal/domain"
	"github.com/assessly-hq/assessly-ai/internal/telemetry"
)

const (
	// DefaultTopK is the number of corpus entries used to ground an answer
	DefaultTopK = 3
	// answerMaxTokens bounds the generated answer length
	answerMaxTokens = 512
	// answerTemperature is kept low for reproducible answers
	answerTemperature = 0.2
)

const groundingInstruction = `You are a support assistant for an online test and assessment platform.
Answer the user's question using only the reference FAQ entries below.
If the reference entries do not cover the question, say you do not know and suggest contacting support.
Keep the answer short and direct.`

// SnapshotProvider exposes the current corpus snapshot.
type SnapshotProvider interface {
	Snapshot() *domain.CorpusSnapshot
}

// Retriever answers user questions grounded on the FAQ corpus.
type Retriever struct {
	index    SnapshotProvider
	provider ai.Provider
	topK     int
}

// NewRetriever creates a retriever over the given corpus index. A topK of 0
// or less falls back to DefaultTopK.
func NewRetriever(index SnapshotProvider, provider ai.Provider, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		index:    index,
		provider: provider,
		topK:     topK,
	}
}

// Answer embeds the question, ranks the corpus by cosine similarity, and asks
// the generation capability for a grounded answer. The generated text is
// returned unmodified.
func (r *Retriever) Answer(ctx context.Context, question string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "Retriever.Answer")
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.ErrEmptyQuestion
	}

	snapshot := r.index.Snapshot()
	if snapshot.Len() == 0 {
		return "", domain.ErrCorpusNotLoaded
	}

	queryVec, err := r.provider.EmbedQuery(ctx, question)
	if err != nil {
		span.SetError(err)
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "failed to embed question", err)
	}

	top := TopK(snapshot, queryVec, r.topK)
	prompt := buildGroundedPrompt(question, top)

	answer, err := r.provider.Generate(ctx, prompt, ai.GenerateParams{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		span.SetError(err)
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "failed to generate answer", err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", domain.ErrNoGeneration
	}

	return answer, nil
}

// TopK returns the k corpus entries most similar to the query vector, in
// descending score order. Ties keep the original corpus order (stable sort),
// so identical inputs always produce identical rankings.
func TopK(snapshot *domain.CorpusSnapshot, query []float32, k int) []domain.RetrievalResult {
	if snapshot.Len() == 0 || k <= 0 {
		return nil
	}

	results := make([]domain.RetrievalResult, snapshot.Len())
	for i, entry := range snapshot.Entries {
		results[i] = domain.RetrievalResult{
			Entry: entry,
			Score: CosineSimilarity(query, entry.Embedding),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// CosineSimilarity computes dot(a, b) / (||a|| * ||b||). Returns 0 when
// either vector is zero or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func buildGroundedPrompt(question string, results []domain.RetrievalResult) string {
	var b strings.Builder
	b.WriteString(groundingInstruction)
	b.WriteString("\n\nReference FAQ entries:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, r.Entry.Question, r.Entry.Answer)
	}
	b.WriteString("\nUser question: ")
	b.WriteString(question)
	return b.String()
}
