package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/internal/models"
	"github.com/noah-isme/edu-archive-api/pkg/response"
)

type exportService interface {
	QuestionPapers(ctx context.Context, actor *models.SessionClaims, filter models.QuestionPaperFilter, format string) (*dto.ExportFile, error)
}

// ExportHandler renders catalog exports.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// QuestionPapers godoc
// @Summary Export question paper catalog
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Security Bearer
// @Param format query string false "csv (default) or pdf"
// @Param semester query int false "Semester (1-10)"
// @Param year query int false "Exam year"
// @Param subject_id query string false "Subject ID"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/exports/question-papers [get]
func (h *ExportHandler) QuestionPapers(c *gin.Context) {
	var query dto.QuestionPaperQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid export query"))
		return
	}
	filter, err := paperFilter(query)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.service.QuestionPapers(c.Request.Context(), claimsFromContext(c), filter, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
