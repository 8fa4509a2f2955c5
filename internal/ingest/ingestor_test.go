package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/assessly-hq/assessly-ai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestor_Ingest_UnsupportedExtension(t *testing.T) {
	ingestor := NewIngestor(0)

	cases := []string{"notes.txt", "slides.pptx", "archive.zip", "noextension", "weird.PDF.exe"}
	for _, name := range cases {
		_, err := ingestor.Ingest(context.Background(), name, strings.NewReader("content"))
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, "filename: %s", name)
	}
}

func TestIngestor_Ingest_ExtensionCaseInsensitive(t *testing.T) {
	ingestor := NewIngestor(0)
	ingestor.strategies[".csv"] = ExtractorFunc(func(path string) (string, error) {
		return "row data", nil
	})

	text, err := ingestor.Ingest(context.Background(), "Marks.CSV", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "row data", text)
}

func TestIngestor_Ingest_CSVEndToEnd(t *testing.T) {
	ingestor := NewIngestor(0)
	upload := strings.NewReader("question,marks\nWhat is 2+2?,1\nDefine gravity,5\n")

	text, err := ingestor.Ingest(context.Background(), "bank.csv", upload)
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "What is 2+2?", rows[0]["question"])
	assert.Equal(t, "5", rows[1]["marks"])
}

func TestIngestor_Ingest_CSVRaggedRow(t *testing.T) {
	ingestor := NewIngestor(0)
	upload := strings.NewReader("a,b,c\n1,2\n")

	text, err := ingestor.Ingest(context.Background(), "data.csv", upload)
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["c"])
}

func TestIngestor_Ingest_TruncatesToBudget(t *testing.T) {
	ingestor := NewIngestor(0)
	ingestor.strategies[".pdf"] = ExtractorFunc(func(path string) (string, error) {
		return strings.Repeat("word ", 2000), nil
	})

	text, err := ingestor.Ingest(context.Background(), "long.pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.Len(t, strings.Fields(text), DefaultTokenBudget)
}

func TestIngestor_Ingest_CSVAlsoTruncated(t *testing.T) {
	ingestor := NewIngestor(10)

	var sb strings.Builder
	sb.WriteString("col\n")
	for i := 0; i < 100; i++ {
		sb.WriteString("some words in every row here\n")
	}

	text, err := ingestor.Ingest(context.Background(), "big.csv", strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Len(t, strings.Fields(text), 10)
}

func TestIngestor_Ingest_EmptyDocument(t *testing.T) {
	ingestor := NewIngestor(0)
	ingestor.strategies[".pdf"] = ExtractorFunc(func(path string) (string, error) {
		return "   \n\t ", nil
	})

	_, err := ingestor.Ingest(context.Background(), "blank.pdf", strings.NewReader("pdf bytes"))
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestIngestor_Ingest_StrategyFailure(t *testing.T) {
	ingestor := NewIngestor(0)
	ingestor.strategies[".pdf"] = ExtractorFunc(func(path string) (string, error) {
		return "", errors.New("corrupt xref table")
	})

	_, err := ingestor.Ingest(context.Background(), "broken.pdf", strings.NewReader("pdf bytes"))

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeInternalError, domainErr.Code)
}

func TestIngestor_Ingest_SpoolsUploadToStrategy(t *testing.T) {
	ingestor := NewIngestor(0)

	var gotPath string
	ingestor.strategies[".docx"] = ExtractorFunc(func(path string) (string, error) {
		gotPath = path
		return "extracted", nil
	})

	_, err := ingestor.Ingest(context.Background(), "doc.docx", strings.NewReader("docx bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gotPath, ".docx"), "temp file keeps the extension: %s", gotPath)
}

func TestIngestor_Ingest_CancelledContext(t *testing.T) {
	ingestor := NewIngestor(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ingestor.Ingest(ctx, "bank.csv", strings.NewReader("a\n1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncateTokens(t *testing.T) {
	assert.Equal(t, "a b c", TruncateTokens("  a \n b\tc  ", 10))
	assert.Equal(t, "a b", TruncateTokens("a b c", 2))
	assert.Equal(t, "", TruncateTokens("", 5))
	assert.Equal(t, "a b c", TruncateTokens("a b c", 0))
}
