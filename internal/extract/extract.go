// Package extract converts uploaded documents into plain text for prompt
// building. Plain text and PDF are supported.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"golang.org/x/text/unicode/norm"
)

// DefaultTimeout bounds a single extraction.
const DefaultTimeout = 15 * time.Second

const mimePDF = "application/pdf"

var (
	// ErrUnsupportedType is returned for payloads that are neither PDF nor text.
	ErrUnsupportedType = errors.New("unsupported file type. Please upload a PDF or text file.")

	// ErrEmptyDocument is returned when no text could be extracted.
	ErrEmptyDocument = errors.New("no text could be extracted from the document")

	// ErrExtraction wraps parser failures.
	ErrExtraction = errors.New("failed to extract text from document")

	// ErrExtractionTimeout is returned when extraction exceeds its time limit.
	ErrExtractionTimeout = errors.New("PDF extraction timed out. Please try a text file or a smaller PDF.")
)

// PDFFunc extracts the text of each page of a PDF.
type PDFFunc func(data []byte) ([]string, error)

// Extractor turns uploaded files into text.
type Extractor struct {
	timeout time.Duration
	pdfText PDFFunc
	logger  *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout sets the extraction time limit. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithPDFFunc replaces the PDF page reader.
func WithPDFFunc(fn PDFFunc) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.pdfText = fn
		}
	}
}

// New creates an Extractor with DefaultTimeout and the ledongthuc/pdf reader.
func New(logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		timeout: DefaultTimeout,
		pdfText: ReadPDFPages,
		logger:  logger.With("component", "text_extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the NFC-normalised text of data. filename is only used as
// a hint when content sniffing is inconclusive.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	mtype := mimetype.Detect(data)
	isPDF := mtype.Is(mimePDF) || strings.EqualFold(filepath.Ext(filename), ".pdf")

	var (
		text string
		err  error
	)
	switch {
	case isPDF:
		text, err = e.extractPDF(ctx, data)
	case isText(mtype):
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid UTF-8", ErrUnsupportedType)
		}
		text = string(data)
	default:
		log.Debug("rejected upload", "filename", filename, "mime_type", mtype.String())
		return "", ErrUnsupportedType
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" {
		return "", ErrEmptyDocument
	}

	log.Debug("document extracted",
		"filename", filename,
		"mime_type", mtype.String(),
		"characters", utf8.RuneCountInString(text))
	return text, nil
}

// extractPDF runs the page reader in its own goroutine so that a slow parse
// can be abandoned when the time limit expires.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		pages []string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		pages, err := e.pdfText(data)
		done <- result{pages: pages, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("%w: %w", ErrExtraction, r.err)
		}
		return strings.Join(r.pages, "\n\n"), nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrExtractionTimeout
		}
		return "", ctx.Err()
	}
}

// isText reports whether mtype is text/plain or one of its descendants
// (JSON, CSV, HTML and so on).
func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return strings.HasPrefix(mtype.String(), "text/")
}

// ReadPDFPages returns the plain text of every page of a PDF document.
func ReadPDFPages(data []byte) (pages []string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	pages = make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
