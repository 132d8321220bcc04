package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/internal/models"
	"github.com/noah-isme/edu-archive-api/pkg/response"
)

type browseService interface {
	Overview(ctx context.Context) (*dto.OverviewResponse, error)
	PaperFacets(ctx context.Context) (*models.PaperFacets, error)
}

// BrowseHandler serves the public landing data.
type BrowseHandler struct {
	service browseService
}

// NewBrowseHandler constructs the handler.
func NewBrowseHandler(service browseService) *BrowseHandler {
	return &BrowseHandler{service: service}
}

// Overview godoc
// @Summary Archive overview
// @Description Every course plus the latest notes and question papers.
// @Tags Browse
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /overview [get]
func (h *BrowseHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Public(c, overview)
}

// PaperFacets godoc
// @Summary Question paper filter values
// @Tags Browse
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /question-papers/facets [get]
func (h *BrowseHandler) PaperFacets(c *gin.Context) {
	facets, err := h.service.PaperFacets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Public(c, facets)
}
