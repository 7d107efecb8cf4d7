package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/phrazzld/mindflow-api/internal/api/shared"
)

// DefaultMaxUploadBytes bounds uploads when no limit is configured.
const DefaultMaxUploadBytes = 32 << 20

// TextExtractor converts an uploaded file to text.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// ExtractHandler handles document uploads.
type ExtractHandler struct {
	extractor TextExtractor
	maxBytes  int64
	logger    *slog.Logger
}

// NewExtractHandler creates an ExtractHandler accepting uploads of at most
// maxBytes. Non-positive values select DefaultMaxUploadBytes.
func NewExtractHandler(extractor TextExtractor, maxBytes int64, logger *slog.Logger) *ExtractHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractHandler{
		extractor: extractor,
		maxBytes:  maxBytes,
		logger:    logger.With("component", "extract_handler"),
	}
}

// Extract handles POST /api/extract with a multipart "file" field.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	// Multipart framing adds a little on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "File too large", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "A file upload is required", err)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > h.maxBytes {
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read upload", err)
		return
	}
	if int64(len(data)) > h.maxBytes {
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	text, err := h.extractor.Extract(r.Context(), header.Filename, data)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to extract text")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ExtractResponse{
		Text:       text,
		Characters: utf8.RuneCountInString(text),
	})
}
