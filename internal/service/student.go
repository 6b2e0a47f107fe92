package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/domain/student"
	"github.com/tutorbook/tutorbook/internal/types"
)

type StudentService interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*dto.StudentResponse, error)
	GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error)
	ListStudents(ctx context.Context, filter *types.StudentFilter) (*dto.ListStudentsResponse, error)
	UpdateStudent(ctx context.Context, id string, req dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id string) error
}

type studentService struct {
	ServiceParams
}

func NewStudentService(params ServiceParams) StudentService {
	return &studentService{
		ServiceParams: params,
	}
}

func (s *studentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	st := req.ToStudent(ctx)
	if err := s.StudentRepo.Create(ctx, st); err != nil {
		return nil, err
	}
	return &dto.StudentResponse{Student: st}, nil
}

func (s *studentService) GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error) {
	st, err := s.StudentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.StudentResponse{Student: st}, nil
}

func (s *studentService) ListStudents(ctx context.Context, filter *types.StudentFilter) (*dto.ListStudentsResponse, error) {
	if filter == nil {
		filter = types.NewStudentFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	students, err := s.StudentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.StudentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListStudentsResponse{
		Items: lo.Map(students, func(st *student.Student, _ int) *dto.StudentResponse {
			return &dto.StudentResponse{Student: st}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, id string, req dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	st, err := s.StudentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(st)
	if err := s.StudentRepo.Update(ctx, st); err != nil {
		return nil, err
	}
	return &dto.StudentResponse{Student: st}, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, id string) error {
	if err := s.StudentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Infow("deleted student", "tutor_id", types.GetTutorID(ctx), "student_id", id)
	return nil
}
