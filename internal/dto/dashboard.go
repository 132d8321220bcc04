package dto

import "github.com/noah-isme/edu-archive-api/internal/models"

// DashboardCounts holds archive totals.
type DashboardCounts struct {
	Courses        int `json:"courses" db:"courses"`
	Subjects       int `json:"subjects" db:"subjects"`
	Notes          int `json:"notes" db:"notes"`
	QuestionPapers int `json:"question_papers" db:"question_papers"`
}

// AdminDashboardResponse captures the aggregated admin dashboard payload.
type AdminDashboardResponse struct {
	Counts       DashboardCounts        `json:"counts"`
	RecentNotes  []models.Note          `json:"recent_notes"`
	RecentPapers []models.QuestionPaper `json:"recent_papers"`
}
