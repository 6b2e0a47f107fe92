package service

import (
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/testutil"
)

// newTestServiceParams wires the suite's in-memory stores and mocks. S3 stays
// unset unless withS3 is true.
func newTestServiceParams(s *testutil.BaseServiceTestSuite, withS3 bool) ServiceParams {
	stores := s.GetStores()
	params := ServiceParams{
		Logger:              s.GetLogger(),
		Config:              s.GetConfig(),
		DB:                  s.GetDB(),
		Cache:               s.GetCache(),
		PDFGenerator:        s.GetPDFGenerator(),
		TutorRepo:           stores.TutorRepo,
		AuthRepo:            stores.AuthRepo,
		BusinessProfileRepo: stores.BusinessProfileRepo,
		StudentRepo:         stores.StudentRepo,
		CourseRepo:          stores.CourseRepo,
		LessonRepo:          stores.LessonRepo,
		InvoiceRepo:         stores.InvoiceRepo,
		ExamStandardRepo:    stores.ExamStandardRepo,
		ExamRecordRepo:      stores.ExamRecordRepo,
		OfficialResultRepo:  stores.OfficialResultRepo,
	}
	if withS3 {
		params.S3 = s.GetS3()
	}
	return params
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
