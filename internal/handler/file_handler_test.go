package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"idportal/internal/storage"
	storagemocks "idportal/internal/storage/mocks"
)

func fileRouter(files storage.FileStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewFileHandler(files).RegisterRoutes(r)
	return r
}

func TestFileHandler_ServesStoredObject(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	body := []byte("\x89PNG fake image")
	url, err := files.Put(context.Background(), "applications/ECR-1/uploadPhoto-me.png", bytes.NewReader(body), int64(len(body)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/applications/ECR-1/uploadPhoto-me.png", url)

	r := fileRouter(files)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/applications/ECR-1/uploadPhoto-me.png", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, body, w.Body.Bytes())
}

func TestFileHandler_NotFound(t *testing.T) {
	files, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	r := fileRouter(files)

	for _, path := range []string{"/files/nope.png", "/files/a/../../etc/passwd", "/files/"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestFileHandler_BackendFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := storagemocks.NewMockFileStorage(ctrl)
	files.EXPECT().Open(gomock.Any(), "employees/e1/photo-a.jpg").
		Return(nil, storage.ObjectInfo{}, errors.New("bucket unavailable"))

	w := httptest.NewRecorder()
	fileRouter(files).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/employees/e1/photo-a.jpg", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
