package jobs

import (
	"context"
	"log"
)

// CorpusReloader rebuilds the FAQ corpus snapshot.
type CorpusReloader interface {
	Reload(ctx context.Context) error
}

// CorpusRefresher periodically rebuilds the FAQ corpus so /faq-chat keeps
// answering from reasonably fresh data. A failed refresh is logged and the
// serving snapshot stays as it was.
type CorpusRefresher struct {
	index CorpusReloader
}

// NewCorpusRefresher creates a new CorpusRefresher instance
func NewCorpusRefresher(index CorpusReloader) *CorpusRefresher {
	return &CorpusRefresher{index: index}
}

// ProcessJobs implements the JobProcessor interface
func (r *CorpusRefresher) ProcessJobs(ctx context.Context) error {
	if err := r.index.Reload(ctx); err != nil {
		// keep polling; the previous snapshot keeps serving
		log.Printf("scheduled corpus refresh failed: %v", err)
	}
	return nil
}
