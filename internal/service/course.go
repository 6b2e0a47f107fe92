package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/domain/course"
	"github.com/tutorbook/tutorbook/internal/types"
)

type CourseService interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, filter *types.CourseFilter) (*dto.ListCoursesResponse, error)
	UpdateCourse(ctx context.Context, id string, req dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id string) error
}

type courseService struct {
	ServiceParams
}

func NewCourseService(params ServiceParams) CourseService {
	return &courseService{
		ServiceParams: params,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// another tutor's student reads as missing
	if _, err := s.StudentRepo.Get(ctx, req.StudentID); err != nil {
		return nil, err
	}

	reg := req.ToRegistration(ctx)
	if err := s.CourseRepo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return &dto.CourseResponse{Registration: reg}, nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	reg, err := s.CourseRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CourseResponse{Registration: reg}, nil
}

func (s *courseService) ListCourses(ctx context.Context, filter *types.CourseFilter) (*dto.ListCoursesResponse, error) {
	if filter == nil {
		filter = types.NewCourseFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	regs, err := s.CourseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.CourseRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListCoursesResponse{
		Items: lo.Map(regs, func(reg *course.Registration, _ int) *dto.CourseResponse {
			return &dto.CourseResponse{Registration: reg}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id string, req dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reg, err := s.CourseRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(reg); err != nil {
		return nil, err
	}
	if err := s.CourseRepo.Update(ctx, reg); err != nil {
		return nil, err
	}
	return &dto.CourseResponse{Registration: reg}, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id string) error {
	return s.CourseRepo.Delete(ctx, id)
}
