package models

import "time"

// Course is the root of the archive hierarchy.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	SubjectCount int       `db:"subject_count" json:"subject_count"`
}

// CourseDetail is a course with its subjects ordered by semester.
type CourseDetail struct {
	Course
	Subjects []Subject `json:"subjects"`
}

// CourseInput is the create/update payload for courses.
type CourseInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"max=2000"`
}
