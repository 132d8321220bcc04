package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type recentNoteLister interface {
	List(ctx context.Context, limit int) ([]models.Note, error)
}

type paperCatalog interface {
	ListRecent(ctx context.Context, limit int) ([]models.QuestionPaper, error)
	Facets(ctx context.Context) (*models.PaperFacets, error)
}

// BrowseService assembles the cached public landing data.
type BrowseService struct {
	courses courseLister
	notes   recentNoteLister
	papers  paperCatalog
	cache   *CacheService
	logger  *zap.Logger
}

// NewBrowseService constructs the service.
func NewBrowseService(courses courseLister, notes recentNoteLister, papers paperCatalog, cache *CacheService, logger *zap.Logger) *BrowseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowseService{courses: courses, notes: notes, papers: papers, cache: cache, logger: logger}
}

// Overview lists every course with the latest notes and papers.
func (s *BrowseService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	var cached dto.OverviewResponse
	if s.cache.Get(ctx, overviewCacheKey, &cached) {
		return &cached, nil
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	notes, err := s.notes.List(ctx, recentLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list recent notes")
	}
	papers, err := s.papers.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list recent question papers")
	}

	overview := &dto.OverviewResponse{
		Courses:      nonNil(courses),
		RecentNotes:  nonNil(notes),
		RecentPapers: nonNil(papers),
	}
	s.cache.Set(ctx, overviewCacheKey, overview)
	return overview, nil
}

// PaperFacets returns the distinct filter values for question papers.
func (s *BrowseService) PaperFacets(ctx context.Context) (*models.PaperFacets, error) {
	var cached models.PaperFacets
	if s.cache.Get(ctx, paperFacetsCacheKey, &cached) {
		return &cached, nil
	}

	facets, err := s.papers.Facets(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load question paper filters")
	}
	s.cache.Set(ctx, paperFacetsCacheKey, facets)
	return facets, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
