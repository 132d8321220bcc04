package models

import "time"

// ExamType classifies question papers.
type ExamType string

const (
	ExamMidterm       ExamType = "midterm"
	ExamEndterm       ExamType = "endterm"
	ExamSupplementary ExamType = "supplementary"
	ExamQuiz          ExamType = "quiz"
	ExamOther         ExamType = "other"
)

const (
	MinPaperYear = 2000
	MaxPaperYear = 2100
)

// QuestionPaper is an uploaded exam paper.
type QuestionPaper struct {
	ID               string    `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Year             int       `db:"year" json:"year"`
	Semester         int       `db:"semester" json:"semester"`
	ExamType         ExamType  `db:"exam_type" json:"exam_type"`
	Filename         string    `db:"filename" json:"filename"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	FileSize         int64     `db:"file_size" json:"file_size"`
	SubjectID        string    `db:"subject_id" json:"subject_id"`
	UploadedAt       time.Time `db:"uploaded_at" json:"uploaded_at"`
	SubjectName      string    `db:"subject_name" json:"subject_name,omitempty"`
	CourseName       string    `db:"course_name" json:"course_name,omitempty"`
}

// QuestionPaperInput is the metadata part of a paper upload or edit.
type QuestionPaperInput struct {
	Title     string   `json:"title" form:"title" validate:"required,max=200"`
	Year      int      `json:"year" form:"year" validate:"required,min=2000,max=2100"`
	Semester  int      `json:"semester" form:"semester" validate:"required,min=1,max=10"`
	ExamType  ExamType `json:"exam_type" form:"exam_type" validate:"required,oneof=midterm endterm supplementary quiz other"`
	SubjectID string   `json:"subject_id" form:"subject_id" validate:"required,uuid"`
}

// QuestionPaperFilter narrows paper listings. Nil pointers are unfiltered.
type QuestionPaperFilter struct {
	Semester  *int
	Year      *int
	SubjectID string
}

// PaperFacets lists the distinct values available for filtering.
type PaperFacets struct {
	Years     []int `json:"years"`
	Semesters []int `json:"semesters"`
}
