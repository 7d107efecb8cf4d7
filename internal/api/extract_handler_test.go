package api_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/phrazzld/mindflow-api/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, env *testEnv, field, filename string, data []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/extract", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestExtractText(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	resp := upload(t, env, "file", "notes.txt", []byte("Über cells\n"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.ExtractResponse
	decodeBody(t, resp, &out)
	assert.Equal(t, "Über cells", out.Text)
	assert.Equal(t, 10, out.Characters)
}

func TestExtractErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{maxUploadBytes: 1024})

	t.Run("too large", func(t *testing.T) {
		resp := upload(t, env, "file", "big.txt", []byte(strings.Repeat("a", 4096)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	t.Run("unsupported type", func(t *testing.T) {
		resp := upload(t, env, "file", "image.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("broken pdf", func(t *testing.T) {
		resp := upload(t, env, "file", "broken.pdf", []byte("%PDF-1.4\ngarbage"))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("missing file field", func(t *testing.T) {
		resp := upload(t, env, "document", "notes.txt", []byte("text"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
