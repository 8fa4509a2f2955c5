package faq

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/assessly-hq/assessly-ai/internal/ai"
	"github.com/assessly-hq/assessly-ai/internal/domain"
	"github.com/assessly-hq/assessly-ai/internal/telemetry"
)

// CorpusIndex holds the current FAQ corpus snapshot. The snapshot is
// replaced by atomic pointer swap on successful reload, so concurrent
// readers always see one complete, consistent corpus. A failed reload
// leaves the previous snapshot untouched: staleness over inconsistency.
type CorpusIndex struct {
	source   Source
	provider ai.Provider
	current  atomic.Pointer[domain.CorpusSnapshot]
}

// NewCorpusIndex creates an empty index. Call Reload to populate it.
func NewCorpusIndex(source Source, provider ai.Provider) *CorpusIndex {
	return &CorpusIndex{
		source:   source,
		provider: provider,
	}
}

// Snapshot returns the current corpus snapshot, or nil before the first
// successful reload. Callers must not mutate the returned entries.
func (c *CorpusIndex) Snapshot() *domain.CorpusSnapshot {
	return c.current.Load()
}

// Reload rebuilds the corpus from the source: one batched, order-preserving
// embedding call over all questions, zipped into a fresh snapshot. The swap
// happens only after the snapshot is fully built.
func (c *CorpusIndex) Reload(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "CorpusIndex.Reload")
	defer span.End()

	entries, err := c.source.FetchAll(ctx)
	if err != nil {
		span.SetError(err)
		log.Printf("faq corpus reload failed, keeping previous snapshot: %v", err)
		return fmt.Errorf("failed to fetch faq corpus: %w", err)
	}

	if len(entries) == 0 {
		log.Println("faq source returned no entries, keeping previous snapshot")
		return nil
	}

	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}

	vectors, err := c.provider.EmbedDocuments(ctx, questions)
	if err != nil {
		span.SetError(err)
		log.Printf("faq corpus embedding failed, keeping previous snapshot: %v", err)
		return fmt.Errorf("failed to embed faq corpus: %w", err)
	}
	if len(vectors) != len(entries) {
		log.Printf("faq corpus embedding count mismatch (%d entries, %d vectors), keeping previous snapshot", len(entries), len(vectors))
		return fmt.Errorf("embedding count mismatch: %d entries, %d vectors", len(entries), len(vectors))
	}

	snapshot := &domain.CorpusSnapshot{
		Entries: make([]domain.FAQEntry, len(entries)),
		BuiltAt: time.Now().UTC(),
	}
	for i, e := range entries {
		snapshot.Entries[i] = domain.FAQEntry{
			ID:        i,
			Question:  e.Question,
			Answer:    e.Answer,
			Embedding: vectors[i],
		}
	}
	if len(vectors) > 0 {
		snapshot.Dimensions = len(vectors[0])
	}

	c.current.Store(snapshot)
	log.Printf("faq corpus reloaded: %d entries, %d dimensions", snapshot.Len(), snapshot.Dimensions)
	return nil
}
