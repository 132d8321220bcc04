package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-archive-api/internal/models"
	"github.com/noah-isme/edu-archive-api/pkg/response"
)

type noteService interface {
	Get(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context) ([]models.Note, error)
	ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error)
	Create(ctx context.Context, actor *models.SessionClaims, input models.NoteInput, upload *models.Upload) (*models.Note, error)
	Update(ctx context.Context, actor *models.SessionClaims, id string, input models.NoteInput, upload *models.Upload) (*models.Note, error)
	Delete(ctx context.Context, actor *models.SessionClaims, id string) error
}

// NoteHandler exposes lecture note endpoints.
type NoteHandler struct {
	service noteService
}

// NewNoteHandler constructs the handler.
func NewNoteHandler(service noteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// ListBySubject godoc
// @Summary List notes of a subject
// @Tags Notes
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id}/notes [get]
func (h *NoteHandler) ListBySubject(c *gin.Context) {
	notes, err := h.service.ListBySubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Public(c, notes)
}

// List godoc
// @Summary List all notes
// @Tags Notes
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Envelope
// @Router /admin/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes)
}

// Get godoc
// @Summary Get note
// @Tags Notes
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note)
}

// Create godoc
// @Summary Upload note
// @Tags Notes
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param subject_id formData string true "Subject ID"
// @Param file formData file true "pdf, doc, docx, ppt, pptx or txt"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /admin/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var input models.NoteInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, bindError(err, "invalid note payload"))
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

	note, err := h.service.Create(c.Request.Context(), claimsFromContext(c), input, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// Update godoc
// @Summary Edit note
// @Description Omitting the file keeps the stored one.
// @Tags Notes
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param id path string true "Note ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param subject_id formData string true "Subject ID"
// @Param file formData file false "Replacement file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	var input models.NoteInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, bindError(err, "invalid note payload"))
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

	note, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), input, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note)
}

// Delete godoc
// @Summary Delete note
// @Tags Notes
// @Security Bearer
// @Param id path string true "Note ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
