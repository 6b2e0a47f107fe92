package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/testutil"
	"github.com/tutorbook/tutorbook/internal/types"
)

type StudentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service StudentService
}

func TestStudentService(t *testing.T) {
	suite.Run(t, new(StudentServiceSuite))
}

func (s *StudentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewStudentService(newTestServiceParams(&s.BaseServiceTestSuite, false))
}

func (s *StudentServiceSuite) create(name string) *dto.StudentResponse {
	resp, err := s.service.CreateStudent(s.GetContext(), dto.CreateStudentRequest{Name: name})
	s.Require().NoError(err)
	return resp
}

func (s *StudentServiceSuite) TestCreateStudent() {
	testCases := []struct {
		name          string
		request       dto.CreateStudentRequest
		expectedError bool
	}{
		{
			name: "successful_creation",
			request: dto.CreateStudentRequest{
				Name:          "  Lena Vogel ",
				Gender:        types.GenderFemale,
				Age:           lo.ToPtr(15),
				CurrentLevel:  "B1",
				TargetLevel:   "B2",
				BillingName:   "Familie Vogel",
				BillingCity:   "München",
				StudentStatus: types.StudentStatusActive,
			},
		},
		{
			name:          "blank_name",
			request:       dto.CreateStudentRequest{Name: "   "},
			expectedError: true,
		},
		{
			name:          "invalid_gender",
			request:       dto.CreateStudentRequest{Name: "Lena", Gender: types.Gender("X")},
			expectedError: true,
		},
		{
			name:          "invalid_age",
			request:       dto.CreateStudentRequest{Name: "Lena", Age: lo.ToPtr(-1)},
			expectedError: true,
		},
		{
			name:          "invalid_exam_mode",
			request:       dto.CreateStudentRequest{Name: "Lena", TargetExamMode: types.ExamMode("PRACTICAL")},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.CreateStudent(s.GetContext(), tc.request)
			if tc.expectedError {
				s.Require().Error(err)
				s.True(ierr.IsValidation(err))
				return
			}
			s.Require().NoError(err)
			s.Equal("Lena Vogel", resp.Name)
			s.Regexp(`^KD`, resp.CustomerNumber)
			s.Equal(types.ExamModeFull, resp.TargetExamMode)
			s.Equal(testutil.DefaultTestTutorID, resp.TutorID)
			s.Equal("Familie Vogel", resp.RecipientName())
		})
	}
}

func (s *StudentServiceSuite) TestCreateStudentDefaults() {
	resp := s.create("Jonas")
	s.Equal(types.StudentStatusActive, resp.StudentStatus)
	s.Equal(types.ExamModeFull, resp.TargetExamMode)
	s.Equal("Jonas", resp.RecipientName())
}

func (s *StudentServiceSuite) TestGetStudentOfAnotherTutor() {
	created := s.create("Lena")

	_, err := s.service.GetStudent(testutil.ContextForTutor("tut_other"), created.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	got, err := s.service.GetStudent(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(created.CustomerNumber, got.CustomerNumber)
}

func (s *StudentServiceSuite) TestListStudents() {
	s.create("Lena Vogel")
	s.create("Jonas Vogel")
	inactive, err := s.service.CreateStudent(s.GetContext(), dto.CreateStudentRequest{
		Name:          "Mia Klein",
		StudentStatus: types.StudentStatusInactive,
	})
	s.Require().NoError(err)

	all, err := s.service.ListStudents(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Len(all.Items, 3)
	s.Equal(3, all.Pagination.Total)

	filter := types.NewStudentFilter()
	filter.Search = "vogel"
	found, err := s.service.ListStudents(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(found.Items, 2)

	filter = types.NewStudentFilter()
	filter.StudentStatus = types.StudentStatusInactive
	found, err = s.service.ListStudents(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Require().Len(found.Items, 1)
	s.Equal(inactive.ID, found.Items[0].ID)

	filter = types.NewStudentFilter()
	filter.StudentStatus = types.StudentStatus("SLEEPING")
	_, err = s.service.ListStudents(s.GetContext(), filter)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *StudentServiceSuite) TestUpdateStudent() {
	created := s.create("Lena")

	resp, err := s.service.UpdateStudent(s.GetContext(), created.ID, dto.UpdateStudentRequest{
		CurrentLevel:  lo.ToPtr("B2"),
		StudentStatus: lo.ToPtr(types.StudentStatusInactive),
		BillingName:   lo.ToPtr("Familie Vogel"),
	})
	s.Require().NoError(err)
	s.Equal("Lena", resp.Name)
	s.Equal("B2", resp.CurrentLevel)
	s.Equal(types.StudentStatusInactive, resp.StudentStatus)
	s.Equal(created.CustomerNumber, resp.CustomerNumber)

	_, err = s.service.UpdateStudent(s.GetContext(), created.ID, dto.UpdateStudentRequest{Name: lo.ToPtr(" ")})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.UpdateStudent(testutil.ContextForTutor("tut_other"), created.ID, dto.UpdateStudentRequest{
		Memo: lo.ToPtr("not mine"),
	})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *StudentServiceSuite) TestDeleteStudent() {
	created := s.create("Lena")

	s.Require().NoError(s.service.DeleteStudent(s.GetContext(), created.ID))

	_, err := s.service.GetStudent(s.GetContext(), created.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	list, err := s.service.ListStudents(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Empty(list.Items)

	err = s.service.DeleteStudent(s.GetContext(), created.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}
