package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/cache"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/testutil"
	"github.com/tutorbook/tutorbook/internal/types"
)

type BusinessProfileServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BusinessProfileService
}

func TestBusinessProfileService(t *testing.T) {
	suite.Run(t, new(BusinessProfileServiceSuite))
}

func (s *BusinessProfileServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite, false)
	s.service = NewBusinessProfileService(params, NewInvoiceSequencer(params))
}

func (s *BusinessProfileServiceSuite) TestUpsertCreatesProfile() {
	resp, err := s.service.UpsertBusinessProfile(s.GetContext(), dto.UpsertBusinessProfileRequest{
		CompanyName: "Lernstudio Berger",
		City:        "Berlin",
	})
	s.Require().NoError(err)

	s.NotEmpty(resp.ID)
	s.Equal(testutil.DefaultTestTutorID, resp.TutorID)
	s.Equal(s.GetConfig().Invoice.DefaultNextNumber, resp.NextInvoiceNumber)
	s.Equal("Deutschland", resp.Country)
	s.Equal(types.PriceInputTypeNetto, resp.PriceInputType)
}

func (s *BusinessProfileServiceSuite) TestUpsertUpdatesInPlace() {
	created, err := s.service.UpsertBusinessProfile(s.GetContext(), dto.UpsertBusinessProfileRequest{
		CompanyName: "Lernstudio Berger",
	})
	s.Require().NoError(err)

	updated, err := s.service.UpsertBusinessProfile(s.GetContext(), dto.UpsertBusinessProfileRequest{
		CompanyName:       "Berger Nachhilfe",
		IsSmallBusiness:   true,
		NextInvoiceNumber: lo.ToPtr(int64(2000)),
	})
	s.Require().NoError(err)

	s.Equal(created.ID, updated.ID)
	s.Equal("Berger Nachhilfe", updated.CompanyName)
	s.True(updated.IsSmallBusiness)

	next, err := s.service.GetNextInvoiceNumber(s.GetContext())
	s.Require().NoError(err)
	s.Equal(int64(2000), next.NextNumber)
	s.True(next.TaxConfig.IsSmallBusiness)
	s.True(next.TaxConfig.VATRate.IsZero())
}

func (s *BusinessProfileServiceSuite) TestUpsertKeepsCounterWhenOmitted() {
	s.CreateBusinessProfile(s.GetContext(), 1234, false)

	resp, err := s.service.UpsertBusinessProfile(s.GetContext(), dto.UpsertBusinessProfileRequest{
		CompanyName: "Lernstudio Berger",
	})
	s.Require().NoError(err)
	s.Equal(int64(1234), resp.NextInvoiceNumber)
}

func (s *BusinessProfileServiceSuite) TestUpsertValidation() {
	testCases := []struct {
		name    string
		request dto.UpsertBusinessProfileRequest
	}{
		{
			name:    "missing_company_name",
			request: dto.UpsertBusinessProfileRequest{},
		},
		{
			name: "invalid_email",
			request: dto.UpsertBusinessProfileRequest{
				CompanyName: "Lernstudio",
				Email:       "not-an-email",
			},
		},
		{
			name: "non_positive_next_number",
			request: dto.UpsertBusinessProfileRequest{
				CompanyName:       "Lernstudio",
				NextInvoiceNumber: lo.ToPtr(int64(0)),
			},
		},
		{
			name: "unknown_price_input_type",
			request: dto.UpsertBusinessProfileRequest{
				CompanyName:    "Lernstudio",
				PriceInputType: types.PriceInputType("both"),
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.UpsertBusinessProfile(s.GetContext(), tc.request)
			s.Require().Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *BusinessProfileServiceSuite) TestGetBusinessProfile() {
	_, err := s.service.GetBusinessProfile(s.GetContext())
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	resp, err := s.service.GetBusinessProfile(s.GetContext())
	s.Require().NoError(err)
	s.Equal("Lernstudio Berger", resp.CompanyName)

	_, cached := s.GetCache().Get(s.GetContext(), cache.GenerateKey(cache.PrefixBusinessProfile, testutil.DefaultTestTutorID))
	s.True(cached)

	// mutating the response never reaches the cache
	resp.CompanyName = "changed"
	again, err := s.service.GetBusinessProfile(s.GetContext())
	s.Require().NoError(err)
	s.Equal("Lernstudio Berger", again.CompanyName)
}

func (s *BusinessProfileServiceSuite) TestUpsertInvalidatesCache() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	_, err := s.service.GetBusinessProfile(s.GetContext())
	s.Require().NoError(err)

	_, err = s.service.UpsertBusinessProfile(s.GetContext(), dto.UpsertBusinessProfileRequest{
		CompanyName: "Berger Nachhilfe",
	})
	s.Require().NoError(err)

	resp, err := s.service.GetBusinessProfile(s.GetContext())
	s.Require().NoError(err)
	s.Equal("Berger Nachhilfe", resp.CompanyName)
}

func (s *BusinessProfileServiceSuite) TestProfilesArePerTutor() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	_, err := s.service.GetBusinessProfile(testutil.ContextForTutor("tut_other"))
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetNextInvoiceNumber(testutil.ContextForTutor("tut_other"))
	s.Require().Error(err)
	s.True(ierr.IsPrecondition(err))
}
