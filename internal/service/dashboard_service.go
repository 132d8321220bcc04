package service

import (
	"context"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

type counter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardCounters groups the per-table counters.
type DashboardCounters struct {
	Courses        counter
	Subjects       counter
	Notes          counter
	QuestionPapers counter
}

// DashboardService summarises the archive for the admin landing page.
type DashboardService struct {
	counters DashboardCounters
	notes    recentNoteLister
	papers   paperCatalog
	auth     authGate
}

// NewDashboardService constructs the service.
func NewDashboardService(counters DashboardCounters, notes recentNoteLister, papers paperCatalog, auth authGate) *DashboardService {
	return &DashboardService{counters: counters, notes: notes, papers: papers, auth: auth}
}

// Summary returns archive totals and the latest uploads.
func (s *DashboardService) Summary(ctx context.Context, actor *models.SessionClaims) (*dto.AdminDashboardResponse, error) {
	if err := s.auth.RequireAuth(actor); err != nil {
		return nil, err
	}

	var counts dto.DashboardCounts
	targets := []struct {
		name string
		src  counter
		dst  *int
	}{
		{"courses", s.counters.Courses, &counts.Courses},
		{"subjects", s.counters.Subjects, &counts.Subjects},
		{"notes", s.counters.Notes, &counts.Notes},
		{"question papers", s.counters.QuestionPapers, &counts.QuestionPapers},
	}
	for _, target := range targets {
		n, err := target.src.Count(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to count "+target.name)
		}
		*target.dst = n
	}

	notes, err := s.notes.List(ctx, recentLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list recent notes")
	}
	papers, err := s.papers.ListRecent(ctx, recentLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list recent question papers")
	}

	return &dto.AdminDashboardResponse{
		Counts:       counts,
		RecentNotes:  nonNil(notes),
		RecentPapers: nonNil(papers),
	}, nil
}
