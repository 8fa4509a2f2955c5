package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/assessly-hq/assessly-ai/internal/api"
	"github.com/assessly-hq/assessly-ai/internal/domain"
)

// maxUploadMemoryBytes caps the in-memory part of multipart parsing; larger
// parts spill to disk and are removed with the form.
const maxUploadMemoryBytes = 4 << 20

// IngestService extracts bounded plain text from an uploaded file.
type IngestService interface {
	Ingest(ctx context.Context, filename string, file io.Reader) (string, error)
}

// ExtractService turns ingested text into a structured test.
type ExtractService interface {
	Extract(ctx context.Context, text string) (*domain.StructuredTest, error)
}

// ExtractHandler serves /extract.
type ExtractHandler struct {
	ingestor  IngestService
	extractor ExtractService
}

// NewExtractHandler creates a new ExtractHandler instance
func NewExtractHandler(ingestor IngestService, extractor ExtractService) *ExtractHandler {
	return &ExtractHandler{ingestor: ingestor, extractor: extractor}
}

// Extract accepts one multipart file upload and responds with the extracted
// StructuredTest JSON.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemoryBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.HandleError(w, domain.ErrMissingUploadFile)
		return
	}
	defer file.Close()

	text, err := h.ingestor.Ingest(r.Context(), header.Filename, file)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	test, err := h.extractor.Extract(r.Context(), text)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, test)
}
