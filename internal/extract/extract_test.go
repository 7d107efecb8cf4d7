package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfHeader = []byte("%PDF-1.4\n%fake document\n")

func TestExtractText(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
		wantErr  error
	}{
		{
			name:     "plain text",
			filename: "notes.txt",
			data:     []byte("  Cells are the basic unit of life.\n"),
			want:     "Cells are the basic unit of life.",
		},
		{
			name:     "json is text",
			filename: "data.json",
			data:     []byte(`{"topic":"biology"}`),
			want:     `{"topic":"biology"}`,
		},
		{
			name:     "nfc normalisation",
			filename: "accents.txt",
			data:     []byte("cafe\u0301"),
			want:     "caf\u00e9",
		},
		{
			name:     "whitespace only",
			filename: "blank.txt",
			data:     []byte(" \n\t "),
			wantErr:  ErrEmptyDocument,
		},
		{
			name:     "png image",
			filename: "photo.png",
			data:     []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
			wantErr:  ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(context.Background(), tt.filename, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPDF(t *testing.T) {
	t.Run("joins pages", func(t *testing.T) {
		e := New(nil, WithPDFFunc(func(data []byte) ([]string, error) {
			return []string{"Page one.", "Page two."}, nil
		}))

		got, err := e.Extract(context.Background(), "lecture.pdf", pdfHeader)
		require.NoError(t, err)
		assert.Equal(t, "Page one.\n\nPage two.", got)
	})

	t.Run("extension selects pdf", func(t *testing.T) {
		called := false
		e := New(nil, WithPDFFunc(func(data []byte) ([]string, error) {
			called = true
			return []string{"text"}, nil
		}))

		_, err := e.Extract(context.Background(), "SCAN.PDF", []byte("not really a pdf"))
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("parser failure", func(t *testing.T) {
		cause := errors.New("xref table not found")
		e := New(nil, WithPDFFunc(func(data []byte) ([]string, error) {
			return nil, cause
		}))

		_, err := e.Extract(context.Background(), "broken.pdf", pdfHeader)
		assert.ErrorIs(t, err, ErrExtraction)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("no text", func(t *testing.T) {
		e := New(nil, WithPDFFunc(func(data []byte) ([]string, error) {
			return []string{"", "  "}, nil
		}))

		_, err := e.Extract(context.Background(), "scanned.pdf", pdfHeader)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		e := New(nil,
			WithTimeout(20*time.Millisecond),
			WithPDFFunc(func(data []byte) ([]string, error) {
				<-release
				return []string{"late"}, nil
			}))

		_, err := e.Extract(context.Background(), "huge.pdf", pdfHeader)
		assert.ErrorIs(t, err, ErrExtractionTimeout)
		assert.Equal(t, "PDF extraction timed out. Please try a text file or a smaller PDF.", err.Error())
	})

	t.Run("caller cancellation", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		e := New(nil, WithPDFFunc(func(data []byte) ([]string, error) {
			<-release
			return nil, nil
		}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.Extract(ctx, "doc.pdf", pdfHeader)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReadPDFPagesRejectsGarbage(t *testing.T) {
	_, err := ReadPDFPages([]byte("%PDF-1.4\nthis is not a valid body"))
	assert.Error(t, err)
}
