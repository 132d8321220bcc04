package models

import "time"

const (
	MinSemester = 1
	MaxSemester = 10
)

// Subject belongs to exactly one course.
type Subject struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	CourseID   string    `db:"course_id" json:"course_id"`
	Semester   int       `db:"semester" json:"semester"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	CourseName string    `db:"course_name" json:"course_name,omitempty"`
}

// SubjectInput is the create/update payload for subjects.
type SubjectInput struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	CourseID string `json:"course_id" form:"course_id" validate:"required,uuid"`
	Semester int    `json:"semester" form:"semester" validate:"required,min=1,max=10"`
}
