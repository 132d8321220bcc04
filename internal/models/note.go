package models

import "time"

// Note is an uploaded lecture note.
type Note struct {
	ID               string    `db:"id" json:"id"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	Filename         string    `db:"filename" json:"filename"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	FileSize         int64     `db:"file_size" json:"file_size"`
	SubjectID        string    `db:"subject_id" json:"subject_id"`
	UploadedAt       time.Time `db:"uploaded_at" json:"uploaded_at"`
	SubjectName      string    `db:"subject_name" json:"subject_name,omitempty"`
	CourseName       string    `db:"course_name" json:"course_name,omitempty"`
}

// NoteInput is the metadata part of a note upload or edit.
type NoteInput struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"max=2000"`
	SubjectID   string `json:"subject_id" form:"subject_id" validate:"required,uuid"`
}
