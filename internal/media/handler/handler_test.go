package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"blog_backend/internal/media/service"
	"blog_backend/internal/upload"
	"blog_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	field, name, contentType string
	data                     []byte
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.name+`"`)
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(upload.New(nil), nil, service.Buckets{}, logger.NewNop())
	engine := gin.New()
	New(svc).RegisterRoutes(engine.Group("/media"))
	return engine
}

func send(t *testing.T, engine *gin.Engine, path string, parts ...part) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	body, contentType := multipartBody(t, parts...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func TestUploadAcceptsImage(t *testing.T) {
	rec, body := send(t, newRouter(), "/media", part{"file", "photo.png", "image/png", pngData(t)})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["accepted"])
	assert.Equal(t, "image", body["category"])
	assert.Equal(t, "photo.png", body["fileName"])
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	rec, body := send(t, newRouter(), "/media", part{"file", "setup.exe", "", []byte("MZ")})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation failed", body["error"])
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details["file"], "not supported")
}

func TestUploadRejectsCorruptImage(t *testing.T) {
	rec, _ := send(t, newRouter(), "/media", part{"file", "photo.jpg", "image/jpeg", []byte("definitely not a jpeg")})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresFile(t *testing.T) {
	rec, body := send(t, newRouter(), "/media", part{"other", "photo.png", "image/png", pngData(t)})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is required", body["error"])
}

func TestUploadAvatarChecksDeclaredType(t *testing.T) {
	engine := newRouter()

	rec, _ := send(t, engine, "/media/avatar", part{"file", "me.png", "image/png", pngData(t)})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = send(t, engine, "/media/avatar", part{"file", "me.png", "text/html", pngData(t)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadBatch(t *testing.T) {
	rec, body := send(t, newRouter(), "/media/batch",
		part{"files", "a.png", "image/png", pngData(t)},
		part{"files", "b.svg", "image/svg+xml", []byte(`<svg><script>alert(1)</script></svg>`)},
	)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["accepted"])
	assert.Equal(t, float64(1), body["rejected"])
	items, ok := body["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestUploadBatchTooManyFiles(t *testing.T) {
	parts := make([]part, service.MaxBatchFiles+1)
	for i := range parts {
		parts[i] = part{"files", "a.mp3", "audio/mpeg", []byte("ID3")}
	}

	rec, body := send(t, newRouter(), "/media/batch", parts...)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "too many files", body["error"])
}
