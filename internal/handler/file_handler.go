package handler

import (
	"errors"
	"net/http"
	"strings"

	"idportal/internal/storage"
	"idportal/pkg/response"

	"github.com/gin-gonic/gin"
)

// FileHandler serves stored documents under the public URLs handed out by
// the file storage.
type FileHandler struct {
	files storage.FileStorage
}

func NewFileHandler(files storage.FileStorage) *FileHandler {
	return &FileHandler{files: files}
}

func (h *FileHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/files/*path", h.ServeFile)
	router.HEAD("/files/*path", h.ServeFile)
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")

	rc, info, err := h.files.Open(c.Request.Context(), key)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "File not found"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to read file"))
		return
	}
	defer rc.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, rc, map[string]string{
		"Cache-Control":          "private, max-age=3600",
		"X-Content-Type-Options": "nosniff",
	})
}
