package handler

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/pkg/response"
)

type downloadService interface {
	Download(ctx context.Context, key string) (*dto.Download, error)
}

// DownloadHandler streams stored files.
type DownloadHandler struct {
	service downloadService
}

// NewDownloadHandler constructs the handler.
func NewDownloadHandler(service downloadService) *DownloadHandler {
	return &DownloadHandler{service: service}
}

// Download godoc
// @Summary Download a stored file
// @Description Streams the file under its original name.
// @Tags Files
// @Produce octet-stream
// @Param key path string true "Storage key"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /download/{key} [get]
func (h *DownloadHandler) Download(c *gin.Context) {
	result, err := h.service.Download(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.Content.Close() //nolint:errcheck

	headers := map[string]string{
		"Content-Disposition":    attachment(result.OriginalFilename),
		"X-Content-Type-Options": "nosniff",
	}
	c.DataFromReader(http.StatusOK, result.Size, result.ContentType, result.Content, headers)
}

func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
