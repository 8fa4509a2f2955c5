package faq

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/assessly-hq/assessly-ai/internal/ai"
	"github.com/assessly-hq/assessly-ai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider mocks the AI provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, params ai.GenerateParams) (string, error) {
	args := m.Called(ctx, prompt, params)
	return args.String(0), args.Error(1)
}

// staticIndex serves a fixed snapshot
type staticIndex struct {
	snapshot *domain.CorpusSnapshot
}

func (s *staticIndex) Snapshot() *domain.CorpusSnapshot {
	return s.snapshot
}

func snapshotOf(entries ...domain.FAQEntry) *domain.CorpusSnapshot {
	dims := 0
	if len(entries) > 0 {
		dims = len(entries[0].Embedding)
	}
	return &domain.CorpusSnapshot{
		Entries:    entries,
		Dimensions: dims,
		BuiltAt:    time.Now().UTC(),
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0.3, -0.7, 0.2},
		{2, 2, 2, 2},
	}

	for _, v := range vectors {
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosineSimilarity_ZeroOrMismatched(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 1}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
}

func TestTopK_RanksByDescendingScore(t *testing.T) {
	snapshot := snapshotOf(
		domain.FAQEntry{ID: 0, Question: "a", Embedding: []float32{1, 0}},
		domain.FAQEntry{ID: 1, Question: "b", Embedding: []float32{0, 1}},
		domain.FAQEntry{ID: 2, Question: "c", Embedding: []float32{0.9, 0.1}},
		domain.FAQEntry{ID: 3, Question: "d", Embedding: []float32{-1, 0}},
	)

	results := TopK(snapshot, []float32{1, 0}, 3)

	require.Len(t, results, 3)
	assert.Equal(t, 0, results[0].Entry.ID)
	assert.Equal(t, 2, results[1].Entry.ID)
	assert.Equal(t, 1, results[2].Entry.ID)
	assert.True(t, results[0].Score >= results[1].Score)
	assert.True(t, results[1].Score >= results[2].Score)
}

func TestTopK_TieBreakIsCorpusOrder(t *testing.T) {
	// all entries identical: scores tie exactly, order must be corpus order
	snapshot := snapshotOf(
		domain.FAQEntry{ID: 0, Embedding: []float32{1, 1}},
		domain.FAQEntry{ID: 1, Embedding: []float32{1, 1}},
		domain.FAQEntry{ID: 2, Embedding: []float32{1, 1}},
		domain.FAQEntry{ID: 3, Embedding: []float32{1, 1}},
	)

	for run := 0; run < 5; run++ {
		results := TopK(snapshot, []float32{1, 1}, 3)
		require.Len(t, results, 3)
		assert.Equal(t, 0, results[0].Entry.ID)
		assert.Equal(t, 1, results[1].Entry.ID)
		assert.Equal(t, 2, results[2].Entry.ID)
	}
}

func TestTopK_FewerEntriesThanK(t *testing.T) {
	snapshot := snapshotOf(
		domain.FAQEntry{ID: 0, Embedding: []float32{1, 0}},
	)

	results := TopK(snapshot, []float32{1, 0}, 3)
	assert.Len(t, results, 1)
}

func TestRetriever_Answer_EmptyQuestion(t *testing.T) {
	mockProvider := new(MockProvider)
	retriever := NewRetriever(&staticIndex{snapshot: snapshotOf()}, mockProvider, 0)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := retriever.Answer(context.Background(), q)
		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	}

	// no embedding or generation call may happen for an empty question
	mockProvider.AssertNotCalled(t, "EmbedQuery")
	mockProvider.AssertNotCalled(t, "Generate")
}

func TestRetriever_Answer_CorpusNotLoaded(t *testing.T) {
	mockProvider := new(MockProvider)
	retriever := NewRetriever(&staticIndex{snapshot: nil}, mockProvider, 0)

	_, err := retriever.Answer(context.Background(), "how do refunds work?")
	assert.ErrorIs(t, err, domain.ErrCorpusNotLoaded)
	mockProvider.AssertNotCalled(t, "EmbedQuery")
}

func TestRetriever_Answer_GroundedOnTopEntries(t *testing.T) {
	refund := domain.FAQEntry{ID: 0, Question: "What is the refund policy?", Answer: "Refunds within 7 days", Embedding: []float32{1, 0}}
	support := domain.FAQEntry{ID: 1, Question: "How do I contact support?", Answer: "Email support@x.com", Embedding: []float32{0, 1}}

	mockProvider := new(MockProvider)
	retriever := NewRetriever(&staticIndex{snapshot: snapshotOf(refund, support)}, mockProvider, 0)

	query := "how do I get my money back"
	// query embedding close to the refund entry
	mockProvider.On("EmbedQuery", mock.Anything, query).Return([]float32{0.95, 0.05}, nil)
	mockProvider.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Refunds within 7 days") && strings.Contains(prompt, query)
	}), mock.Anything).Return("Refunds are processed within 7 days of the request.", nil)

	answer, err := retriever.Answer(context.Background(), query)

	require.NoError(t, err)
	assert.Contains(t, answer, "7 days")
	mockProvider.AssertExpectations(t)
}

func TestRetriever_Answer_EmptyGeneration(t *testing.T) {
	entry := domain.FAQEntry{ID: 0, Question: "q", Answer: "a", Embedding: []float32{1}}

	mockProvider := new(MockProvider)
	retriever := NewRetriever(&staticIndex{snapshot: snapshotOf(entry)}, mockProvider, 0)

	mockProvider.On("EmbedQuery", mock.Anything, mock.Anything).Return([]float32{1}, nil)
	mockProvider.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("   ", nil)

	_, err := retriever.Answer(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrNoGeneration)
}

func TestRetriever_Answer_EmbeddingFailure(t *testing.T) {
	entry := domain.FAQEntry{ID: 0, Question: "q", Answer: "a", Embedding: []float32{1}}

	mockProvider := new(MockProvider)
	retriever := NewRetriever(&staticIndex{snapshot: snapshotOf(entry)}, mockProvider, 0)

	mockProvider.On("EmbedQuery", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

	_, err := retriever.Answer(context.Background(), "anything")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeGeneration, domainErr.Code)
	mockProvider.AssertNotCalled(t, "Generate")
}

func TestRetriever_Answer_ScoresWithinRange(t *testing.T) {
	// sanity: cosine scores stay within [-1, 1] for arbitrary vectors
	snapshot := snapshotOf(
		domain.FAQEntry{ID: 0, Embedding: []float32{3, -4}},
		domain.FAQEntry{ID: 1, Embedding: []float32{-2, 0.5}},
	)

	for _, r := range TopK(snapshot, []float32{0.1, 9}, 2) {
		assert.LessOrEqual(t, r.Score, 1.0+1e-9)
		assert.GreaterOrEqual(t, r.Score, -1.0-1e-9)
		assert.False(t, math.IsNaN(r.Score))
	}
}
