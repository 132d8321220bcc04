package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/internal/models"
	"github.com/noah-isme/edu-archive-api/pkg/response"
)

type questionPaperService interface {
	Get(ctx context.Context, id string) (*models.QuestionPaper, error)
	List(ctx context.Context, filter models.QuestionPaperFilter) ([]models.QuestionPaper, error)
	Create(ctx context.Context, actor *models.SessionClaims, input models.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error)
	Update(ctx context.Context, actor *models.SessionClaims, id string, input models.QuestionPaperInput, upload *models.Upload) (*models.QuestionPaper, error)
	Delete(ctx context.Context, actor *models.SessionClaims, id string) error
}

// QuestionPaperHandler exposes question paper endpoints.
type QuestionPaperHandler struct {
	service questionPaperService
}

// NewQuestionPaperHandler constructs the handler.
func NewQuestionPaperHandler(service questionPaperService) *QuestionPaperHandler {
	return &QuestionPaperHandler{service: service}
}

// List godoc
// @Summary List question papers
// @Description Ordered by year descending then semester ascending.
// @Tags Question Papers
// @Produce json
// @Param semester query int false "Semester (1-10)"
// @Param year query int false "Exam year"
// @Param subject_id query string false "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /question-papers [get]
func (h *QuestionPaperHandler) List(c *gin.Context) {
	papers, ok := h.list(c)
	if !ok {
		return
	}
	response.Public(c, papers)
}

// AdminList godoc
// @Summary List question papers for management
// @Tags Question Papers
// @Produce json
// @Security Bearer
// @Param semester query int false "Semester (1-10)"
// @Param year query int false "Exam year"
// @Param subject_id query string false "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /admin/question-papers [get]
func (h *QuestionPaperHandler) AdminList(c *gin.Context) {
	papers, ok := h.list(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, papers)
}

func (h *QuestionPaperHandler) list(c *gin.Context) ([]models.QuestionPaper, bool) {
	var query dto.QuestionPaperQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid question paper filter"))
		return nil, false
	}
	filter, err := paperFilter(query)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	papers, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return papers, true
}

// Get godoc
// @Summary Get question paper
// @Tags Question Papers
// @Produce json
// @Security Bearer
// @Param id path string true "Question paper ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/question-papers/{id} [get]
func (h *QuestionPaperHandler) Get(c *gin.Context) {
	paper, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paper)
}

// Create godoc
// @Summary Upload question paper
// @Tags Question Papers
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param title formData string true "Title"
// @Param year formData int true "Exam year"
// @Param semester formData int true "Semester (1-10)"
// @Param exam_type formData string true "midterm, endterm, supplementary, quiz or other"
// @Param subject_id formData string true "Subject ID"
// @Param file formData file true "pdf, doc or docx"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /admin/question-papers [post]
func (h *QuestionPaperHandler) Create(c *gin.Context) {
	var input models.QuestionPaperInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, bindError(err, "invalid question paper payload"))
		return
	}
	upload, file, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	paper, err := h.service.Create(c.Request.Context(), claimsFromContext(c), input, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, paper)
}

// Update godoc
// @Summary Edit question paper
// @Description Omitting the file keeps the stored one.
// @Tags Question Papers
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path string true "Question paper ID"
// @Param title formData string true "Title"
// @Param year formData int true "Exam year"
// @Param semester formData int true "Semester (1-10)"
// @Param exam_type formData string true "Exam type"
// @Param subject_id formData string true "Subject ID"
// @Param file formData file false "Replacement file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/question-papers/{id} [put]
func (h *QuestionPaperHandler) Update(c *gin.Context) {
	var input models.QuestionPaperInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, bindError(err, "invalid question paper payload"))
		return
	}
	upload, file, err := formUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	paper, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), input, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paper)
}

// Delete godoc
// @Summary Delete question paper
// @Tags Question Papers
// @Security Bearer
// @Param id path string true "Question paper ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/question-papers/{id} [delete]
func (h *QuestionPaperHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
