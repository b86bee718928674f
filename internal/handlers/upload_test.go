package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taranggg/Chillax/internal/storage"
)

func newUploadHandler(t *testing.T, maxBytes int64) *UploadHandler {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return NewUploadHandler(store, maxBytes, "http://example.com")
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	h := newUploadHandler(t, 1<<20)

	body, contentType := multipartBody(t, "video", "my movie.mp4", "hello world")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "my movie.mp4", resp.OriginalName)
	require.Equal(t, int64(len("hello world")), resp.Size)
	// 元の名前は無害化され、一意なサフィックスが付く
	require.True(t, strings.HasPrefix(resp.URL, "http://example.com/uploads/my_movie-"), "url = %s", resp.URL)
	require.True(t, strings.HasSuffix(resp.URL, ".mp4"), "url = %s", resp.URL)
}

func TestUploadMissingFile(t *testing.T) {
	h := newUploadHandler(t, 1<<20)

	body, contentType := multipartBody(t, "wrongfield", "a.mp4", "data")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.NotEmpty(t, errResp.Error)
}

func TestUploadTooLarge(t *testing.T) {
	h := newUploadHandler(t, 16) // 上限16バイト

	body, contentType := multipartBody(t, "video", "big.mp4", strings.Repeat("x", 1024))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
