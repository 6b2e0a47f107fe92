package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/domain/course"
	"github.com/tutorbook/tutorbook/internal/domain/student"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/testutil"
	"github.com/tutorbook/tutorbook/internal/types"
)

type LessonServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  *lessonService
	now      time.Time
	testData struct {
		student *student.Student
		course  *course.Registration
	}
}

func TestLessonService(t *testing.T) {
	suite.Run(t, new(LessonServiceSuite))
}

func (s *LessonServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.now = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)
	s.service = &lessonService{
		ServiceParams: newTestServiceParams(&s.BaseServiceTestSuite, false),
		now:           func() time.Time { return s.now },
	}

	ctx := s.GetContext()
	s.testData.student = &student.Student{
		ID:             "stu_lena",
		CustomerNumber: "KD0001",
		Name:           "Lena Vogel",
		StudentStatus:  types.StudentStatusActive,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().StudentRepo.Create(ctx, s.testData.student))

	s.testData.course = &course.Registration{
		ID:           "crs_b2",
		StudentID:    s.testData.student.ID,
		CourseStatus: types.CourseStatusActive,
		StartDate:    types.NewDate(2026, time.October, 1),
		HourlyRate:   dec("40"),
		TotalHours:   dec("10"),
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	s.testData.course.CalculateTotalFee()
	s.NoError(s.GetStores().CourseRepo.Create(ctx, s.testData.course))
}

func tod(hour, minute int) *types.TimeOfDay {
	return &types.TimeOfDay{Hour: hour, Minute: minute}
}

func (s *LessonServiceSuite) request(date types.Date, start, end *types.TimeOfDay) dto.CreateLessonRequest {
	return dto.CreateLessonRequest{
		StudentID:            s.testData.student.ID,
		CourseRegistrationID: lo.ToPtr(s.testData.course.ID),
		Date:                 &date,
		StartTime:            start,
		EndTime:              end,
		Topic:                "Konjunktiv II",
	}
}

func (s *LessonServiceSuite) TestCreateLesson() {
	resp, err := s.service.CreateLesson(s.GetContext(), s.request(types.NewDate(2026, time.October, 14), tod(16, 0), tod(17, 30)))
	s.Require().NoError(err)
	s.Equal(types.LessonStatusScheduled, resp.LessonStatus)
	s.Equal("Konjunktiv II", resp.Topic)
	s.Equal(90, resp.EndTime.Minutes()-resp.StartTime.Minutes())
}

func (s *LessonServiceSuite) TestCreateLessonValidation() {
	day := types.NewDate(2026, time.October, 14)

	_, err := s.service.CreateLesson(s.GetContext(), s.request(day, tod(17, 0), tod(16, 0)))
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreateLesson(s.GetContext(), s.request(day, tod(16, 0), tod(16, 0)))
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	req := s.request(day, tod(16, 0), tod(17, 0))
	req.LessonStatus = types.LessonStatus("POSTPONED")
	_, err = s.service.CreateLesson(s.GetContext(), req)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LessonServiceSuite) TestCreateLessonChecksReferences() {
	day := types.NewDate(2026, time.October, 14)

	req := s.request(day, tod(16, 0), tod(17, 0))
	req.CourseRegistrationID = lo.ToPtr("crs_unknown")
	_, err := s.service.CreateLesson(s.GetContext(), req)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.CreateLesson(testutil.ContextForTutor("tut_other"), s.request(day, tod(16, 0), tod(17, 0)))
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *LessonServiceSuite) TestListTodayLessons() {
	today := types.DateOf(s.now)
	for _, start := range []int{18, 9, 14} {
		_, err := s.service.CreateLesson(s.GetContext(), s.request(today, tod(start, 0), tod(start+1, 0)))
		s.Require().NoError(err)
	}
	_, err := s.service.CreateLesson(s.GetContext(), s.request(today.AddDays(1), tod(8, 0), tod(9, 0)))
	s.Require().NoError(err)

	resp, err := s.service.ListTodayLessons(s.GetContext())
	s.Require().NoError(err)
	s.Require().Len(resp.Items, 3)
	s.Equal(9, resp.Items[0].StartTime.Hour)
	s.Equal(14, resp.Items[1].StartTime.Hour)
	s.Equal(18, resp.Items[2].StartTime.Hour)
}

func (s *LessonServiceSuite) TestListLessonsDateRange() {
	base := types.NewDate(2026, time.October, 1)
	for i := 0; i < 5; i++ {
		_, err := s.service.CreateLesson(s.GetContext(), s.request(base.AddDays(i*7), tod(16, 0), tod(17, 0)))
		s.Require().NoError(err)
	}

	filter := types.NewLessonFilter()
	filter.StartDate = lo.ToPtr(base.AddDays(7))
	filter.EndDate = lo.ToPtr(base.AddDays(21))
	resp, err := s.service.ListLessons(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Pagination.Total)

	filter.EndDate = lo.ToPtr(base)
	_, err = s.service.ListLessons(s.GetContext(), filter)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LessonServiceSuite) TestUpdateLesson() {
	created, err := s.service.CreateLesson(s.GetContext(), s.request(types.DateOf(s.now), tod(16, 0), tod(17, 0)))
	s.Require().NoError(err)

	resp, err := s.service.UpdateLesson(s.GetContext(), created.ID, dto.UpdateLessonRequest{
		LessonStatus: lo.ToPtr(types.LessonStatusCompleted),
		Memo:         lo.ToPtr("Hausaufgaben kontrolliert"),
	})
	s.Require().NoError(err)
	s.Equal(types.LessonStatusCompleted, resp.LessonStatus)
	s.Equal("Hausaufgaben kontrolliert", resp.Memo)

	// the merged range must stay valid
	_, err = s.service.UpdateLesson(s.GetContext(), created.ID, dto.UpdateLessonRequest{
		EndTime: tod(15, 0),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	stored, err := s.service.GetLesson(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(17, stored.EndTime.Hour)
}

func (s *LessonServiceSuite) TestDeleteLesson() {
	created, err := s.service.CreateLesson(s.GetContext(), s.request(types.DateOf(s.now), tod(16, 0), tod(17, 0)))
	s.Require().NoError(err)

	err = s.service.DeleteLesson(testutil.ContextForTutor("tut_other"), created.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	s.Require().NoError(s.service.DeleteLesson(s.GetContext(), created.ID))
	_, err = s.service.GetLesson(s.GetContext(), created.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}
