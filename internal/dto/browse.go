package dto

import "github.com/noah-isme/edu-archive-api/internal/models"

// OverviewResponse is the public landing payload.
type OverviewResponse struct {
	Courses      []models.Course        `json:"courses"`
	RecentNotes  []models.Note          `json:"recent_notes"`
	RecentPapers []models.QuestionPaper `json:"recent_papers"`
}

// QuestionPaperQuery captures list query parameters.
type QuestionPaperQuery struct {
	Semester  string `form:"semester"`
	Year      string `form:"year"`
	SubjectID string `form:"subject_id"`
	Format    string `form:"format"`
}
