package dto

import (
	"context"
	"time"

	"github.com/tutorbook/tutorbook/internal/domain/lesson"
	"github.com/tutorbook/tutorbook/internal/types"
	"github.com/tutorbook/tutorbook/internal/validator"
)

type CreateLessonRequest struct {
	StudentID            string             `json:"student_id" validate:"required"`
	CourseRegistrationID *string            `json:"course_registration_id"`
	Date                 *types.Date        `json:"date" validate:"required"`
	StartTime            *types.TimeOfDay   `json:"start_time" validate:"required"`
	EndTime              *types.TimeOfDay   `json:"end_time" validate:"required"`
	Topic                string             `json:"topic" validate:"omitempty,max=255"`
	Memo                 string             `json:"memo"`
	LessonStatus         types.LessonStatus `json:"lesson_status"`
}

func (r *CreateLessonRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.LessonStatus != "" {
		if err := r.LessonStatus.Validate(); err != nil {
			return err
		}
	}
	return validateLessonTimes(*r.StartTime, *r.EndTime)
}

func (r *CreateLessonRequest) ToLesson(ctx context.Context) *lesson.Lesson {
	l := &lesson.Lesson{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LESSON),
		StudentID:            r.StudentID,
		CourseRegistrationID: r.CourseRegistrationID,
		Date:                 *r.Date,
		StartTime:            *r.StartTime,
		EndTime:              *r.EndTime,
		Topic:                r.Topic,
		Memo:                 r.Memo,
		LessonStatus:         r.LessonStatus,
		BaseModel:            types.GetDefaultBaseModel(ctx),
	}
	if l.LessonStatus == "" {
		l.LessonStatus = types.LessonStatusScheduled
	}
	return l
}

type UpdateLessonRequest struct {
	CourseRegistrationID *string             `json:"course_registration_id"`
	Date                 *types.Date         `json:"date"`
	StartTime            *types.TimeOfDay    `json:"start_time"`
	EndTime              *types.TimeOfDay    `json:"end_time"`
	Topic                *string             `json:"topic" validate:"omitempty,max=255"`
	Memo                 *string             `json:"memo"`
	LessonStatus         *types.LessonStatus `json:"lesson_status"`
}

func (r *UpdateLessonRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.LessonStatus != nil {
		return r.LessonStatus.Validate()
	}
	return nil
}

// Apply sets the given fields and checks the resulting time range
func (r *UpdateLessonRequest) Apply(l *lesson.Lesson) error {
	if r.CourseRegistrationID != nil {
		l.CourseRegistrationID = r.CourseRegistrationID
	}
	if r.Date != nil {
		l.Date = *r.Date
	}
	if r.StartTime != nil {
		l.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		l.EndTime = *r.EndTime
	}
	if r.Topic != nil {
		l.Topic = *r.Topic
	}
	if r.Memo != nil {
		l.Memo = *r.Memo
	}
	if r.LessonStatus != nil {
		l.LessonStatus = *r.LessonStatus
	}
	if err := validateLessonTimes(l.StartTime, l.EndTime); err != nil {
		return err
	}
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func validateLessonTimes(start, end types.TimeOfDay) error {
	if !start.Before(end) {
		return validationError("end_time", "end_time must be after start_time")
	}
	return nil
}

type LessonResponse struct {
	*lesson.Lesson
}

type ListLessonsResponse = types.ListResponse[*LessonResponse]
