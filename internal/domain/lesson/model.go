package lesson

import (
	"github.com/tutorbook/tutorbook/internal/types"
)

// Lesson is one scheduled session with a student
type Lesson struct {
	ID                   string             `db:"id" json:"id"`
	StudentID            string             `db:"student_id" json:"student_id"`
	CourseRegistrationID *string            `db:"course_registration_id" json:"course_registration_id,omitempty"`
	Date                 types.Date         `db:"date" json:"date"`
	StartTime            types.TimeOfDay    `db:"start_time" json:"start_time"`
	EndTime              types.TimeOfDay    `db:"end_time" json:"end_time"`
	Topic                string             `db:"topic" json:"topic"`
	Memo                 string             `db:"memo" json:"memo"`
	LessonStatus         types.LessonStatus `db:"lesson_status" json:"lesson_status"`

	types.BaseModel
}

// DurationMinutes is the scheduled length of the lesson
func (l *Lesson) DurationMinutes() int {
	return l.EndTime.Minutes() - l.StartTime.Minutes()
}
