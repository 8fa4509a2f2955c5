package domain

import "time"

// FAQEntry is one question/answer pair with its document embedding.
type FAQEntry struct {
	ID        int       `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Embedding []float32 `json:"-"`
}

// CorpusSnapshot is an immutable view of the full FAQ corpus. A snapshot is
// built wholesale on reload and replaces the previous one only on success;
// entries keep the source order and share one embedding dimension.
type CorpusSnapshot struct {
	Entries    []FAQEntry
	Dimensions int
	BuiltAt    time.Time
}

// Len returns the number of entries in the snapshot. Safe on a nil snapshot.
func (s *CorpusSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// RetrievalResult pairs a corpus entry with its similarity to a query.
// Score is cosine similarity, in [-1, 1].
type RetrievalResult struct {
	Entry FAQEntry
	Score float64
}
