package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/domain/lesson"
	"github.com/tutorbook/tutorbook/internal/types"
)

type LessonService interface {
	CreateLesson(ctx context.Context, req dto.CreateLessonRequest) (*dto.LessonResponse, error)
	GetLesson(ctx context.Context, id string) (*dto.LessonResponse, error)
	ListLessons(ctx context.Context, filter *types.LessonFilter) (*dto.ListLessonsResponse, error)
	// ListTodayLessons returns today's lessons (UTC) ordered by start time
	ListTodayLessons(ctx context.Context) (*dto.ListLessonsResponse, error)
	UpdateLesson(ctx context.Context, id string, req dto.UpdateLessonRequest) (*dto.LessonResponse, error)
	DeleteLesson(ctx context.Context, id string) error
}

type lessonService struct {
	ServiceParams
	now func() time.Time
}

func NewLessonService(params ServiceParams) LessonService {
	return &lessonService{
		ServiceParams: params,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *lessonService) CreateLesson(ctx context.Context, req dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.StudentID, req.CourseRegistrationID); err != nil {
		return nil, err
	}

	l := req.ToLesson(ctx)
	if err := s.LessonRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	return &dto.LessonResponse{Lesson: l}, nil
}

// checkReferences resolves the linked student and course within the tutor
func (s *lessonService) checkReferences(ctx context.Context, studentID string, courseID *string) error {
	if _, err := s.StudentRepo.Get(ctx, studentID); err != nil {
		return err
	}
	if courseID != nil && *courseID != "" {
		if _, err := s.CourseRepo.Get(ctx, *courseID); err != nil {
			return err
		}
	}
	return nil
}

func (s *lessonService) GetLesson(ctx context.Context, id string) (*dto.LessonResponse, error) {
	l, err := s.LessonRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.LessonResponse{Lesson: l}, nil
}

func (s *lessonService) ListLessons(ctx context.Context, filter *types.LessonFilter) (*dto.ListLessonsResponse, error) {
	if filter == nil {
		filter = types.NewLessonFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	lessons, err := s.LessonRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.LessonRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListLessonsResponse{
		Items: lo.Map(lessons, func(l *lesson.Lesson, _ int) *dto.LessonResponse {
			return &dto.LessonResponse{Lesson: l}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *lessonService) ListTodayLessons(ctx context.Context) (*dto.ListLessonsResponse, error) {
	today := types.DateOf(s.now())
	filter := &types.LessonFilter{
		QueryFilter: types.NewNoLimitQueryFilter(),
		StartDate:   &today,
		EndDate:     &today,
	}
	filter.Sort = lo.ToPtr("start_time")
	filter.Order = lo.ToPtr(types.OrderAsc)
	return s.ListLessons(ctx, filter)
}

func (s *lessonService) UpdateLesson(ctx context.Context, id string, req dto.UpdateLessonRequest) (*dto.LessonResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l, err := s.LessonRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(l); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, l.StudentID, l.CourseRegistrationID); err != nil {
		return nil, err
	}
	if err := s.LessonRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	return &dto.LessonResponse{Lesson: l}, nil
}

func (s *lessonService) DeleteLesson(ctx context.Context, id string) error {
	return s.LessonRepo.Delete(ctx, id)
}
