package dto

import (
	"context"
	"strings"
	"time"

	"github.com/tutorbook/tutorbook/internal/domain/student"
	"github.com/tutorbook/tutorbook/internal/types"
	"github.com/tutorbook/tutorbook/internal/validator"
)

type CreateStudentRequest struct {
	Name            string              `json:"name" validate:"required,max=255"`
	Gender          types.Gender        `json:"gender"`
	Age             *int                `json:"age" validate:"omitempty,min=0,max=150"`
	CurrentLevel    string              `json:"current_level" validate:"omitempty,max=50"`
	TargetLevel     string              `json:"target_level" validate:"omitempty,max=50"`
	TargetExamMode  types.ExamMode      `json:"target_exam_mode"`
	Memo            string              `json:"memo"`
	StudentStatus   types.StudentStatus `json:"student_status"`
	BillingName     string              `json:"billing_name" validate:"omitempty,max=255"`
	BillingStreet   string              `json:"billing_street" validate:"omitempty,max=255"`
	BillingPostcode string              `json:"billing_postcode" validate:"omitempty,max=20"`
	BillingCity     string              `json:"billing_city" validate:"omitempty,max=100"`
	BillingCountry  string              `json:"billing_country" validate:"omitempty,max=100"`
}

func (r *CreateStudentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if strings.TrimSpace(r.Name) == "" {
		return validationError("name", "name is required")
	}
	if err := r.Gender.Validate(); err != nil {
		return err
	}
	if r.TargetExamMode != "" {
		if err := r.TargetExamMode.Validate(); err != nil {
			return err
		}
	}
	if r.StudentStatus != "" {
		return r.StudentStatus.Validate()
	}
	return nil
}

func (r *CreateStudentRequest) ToStudent(ctx context.Context) *student.Student {
	s := &student.Student{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_STUDENT),
		CustomerNumber:  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_CUSTOMER),
		Name:            strings.TrimSpace(r.Name),
		Gender:          r.Gender,
		Age:             r.Age,
		CurrentLevel:    r.CurrentLevel,
		TargetLevel:     r.TargetLevel,
		TargetExamMode:  r.TargetExamMode,
		Memo:            r.Memo,
		StudentStatus:   r.StudentStatus,
		BillingName:     r.BillingName,
		BillingStreet:   r.BillingStreet,
		BillingPostcode: r.BillingPostcode,
		BillingCity:     r.BillingCity,
		BillingCountry:  r.BillingCountry,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
	if s.TargetExamMode == "" {
		s.TargetExamMode = types.ExamModeFull
	}
	if s.StudentStatus == "" {
		s.StudentStatus = types.StudentStatusActive
	}
	return s
}

type UpdateStudentRequest struct {
	Name            *string              `json:"name" validate:"omitempty,max=255"`
	Gender          *types.Gender        `json:"gender"`
	Age             *int                 `json:"age" validate:"omitempty,min=0,max=150"`
	CurrentLevel    *string              `json:"current_level" validate:"omitempty,max=50"`
	TargetLevel     *string              `json:"target_level" validate:"omitempty,max=50"`
	TargetExamMode  *types.ExamMode      `json:"target_exam_mode"`
	Memo            *string              `json:"memo"`
	StudentStatus   *types.StudentStatus `json:"student_status"`
	BillingName     *string              `json:"billing_name" validate:"omitempty,max=255"`
	BillingStreet   *string              `json:"billing_street" validate:"omitempty,max=255"`
	BillingPostcode *string              `json:"billing_postcode" validate:"omitempty,max=20"`
	BillingCity     *string              `json:"billing_city" validate:"omitempty,max=100"`
	BillingCountry  *string              `json:"billing_country" validate:"omitempty,max=100"`
}

func (r *UpdateStudentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return validationError("name", "name must not be empty")
	}
	if r.Gender != nil {
		if err := r.Gender.Validate(); err != nil {
			return err
		}
	}
	if r.TargetExamMode != nil {
		if err := r.TargetExamMode.Validate(); err != nil {
			return err
		}
	}
	if r.StudentStatus != nil {
		return r.StudentStatus.Validate()
	}
	return nil
}

// Apply sets the given fields on s, the customer number never changes
func (r *UpdateStudentRequest) Apply(s *student.Student) {
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.Gender != nil {
		s.Gender = *r.Gender
	}
	if r.Age != nil {
		s.Age = r.Age
	}
	if r.CurrentLevel != nil {
		s.CurrentLevel = *r.CurrentLevel
	}
	if r.TargetLevel != nil {
		s.TargetLevel = *r.TargetLevel
	}
	if r.TargetExamMode != nil {
		s.TargetExamMode = *r.TargetExamMode
	}
	if r.Memo != nil {
		s.Memo = *r.Memo
	}
	if r.StudentStatus != nil {
		s.StudentStatus = *r.StudentStatus
	}
	if r.BillingName != nil {
		s.BillingName = *r.BillingName
	}
	if r.BillingStreet != nil {
		s.BillingStreet = *r.BillingStreet
	}
	if r.BillingPostcode != nil {
		s.BillingPostcode = *r.BillingPostcode
	}
	if r.BillingCity != nil {
		s.BillingCity = *r.BillingCity
	}
	if r.BillingCountry != nil {
		s.BillingCountry = *r.BillingCountry
	}
	s.UpdatedAt = time.Now().UTC()
}

type StudentResponse struct {
	*student.Student
}

type ListStudentsResponse = types.ListResponse[*StudentResponse]
