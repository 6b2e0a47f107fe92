package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	"github.com/tutorbook/tutorbook/internal/domain/student"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/pdf"
	"github.com/tutorbook/tutorbook/internal/s3"
	"github.com/tutorbook/tutorbook/internal/testutil"
	"github.com/tutorbook/tutorbook/internal/types"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        InvoiceService
	profileService BusinessProfileService
	profileStore   *testutil.InMemoryBusinessProfileStore
	invoiceStore   *testutil.InMemoryInvoiceStore
	testData       struct {
		student *student.Student
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService(false)
	s.setupTestData()
}

func (s *InvoiceServiceSuite) setupService(withS3 bool) {
	s.profileStore = s.GetStores().BusinessProfileRepo.(*testutil.InMemoryBusinessProfileStore)
	s.invoiceStore = s.GetStores().InvoiceRepo.(*testutil.InMemoryInvoiceStore)

	params := newTestServiceParams(&s.BaseServiceTestSuite, withS3)
	sequencer := NewInvoiceSequencer(params)
	s.service = NewInvoiceService(params, sequencer)
	s.profileService = NewBusinessProfileService(params, sequencer)
}

func (s *InvoiceServiceSuite) setupTestData() {
	s.testData.student = &student.Student{
		ID:              "stu_lena",
		CustomerNumber:  "KD0001",
		Name:            "Lena Vogel",
		BillingName:     "Familie Vogel",
		BillingStreet:   "Gartenweg 3",
		BillingPostcode: "80331",
		BillingCity:     "München",
		BillingCountry:  "Deutschland",
		StudentStatus:   types.StudentStatusActive,
		TargetExamMode:  types.ExamModeFull,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().StudentRepo.Create(s.GetContext(), s.testData.student))
}

func (s *InvoiceServiceSuite) nextNumber() int64 {
	p, err := s.profileStore.GetByTutorID(s.GetContext(), testutil.DefaultTestTutorID)
	s.Require().NoError(err)
	return p.NextInvoiceNumber
}

func hourItem(qty, price string) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{
		Description: "Nachhilfe Mathematik",
		Quantity:    dto.Number(qty),
		Unit:        types.ItemUnitHour,
		UnitPrice:   dto.Number(price),
	}
}

func (s *InvoiceServiceSuite) createRequest(items ...dto.InvoiceItemRequest) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		InvoiceContent: dto.InvoiceContent{
			StudentID: lo.ToPtr(s.testData.student.ID),
			Subject:   "Nachhilfe Oktober",
			Items:     items,
		},
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	profile := s.CreateBusinessProfile(s.GetContext(), 1000, false)

	resp, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("2", "50.00")))
	s.Require().NoError(err)

	inv := resp.Invoice
	s.Equal(int64(1000), inv.InvoiceNumber)
	s.Regexp(`^RE-1000\d{4}$`, inv.FullInvoiceCode)
	s.Equal(testutil.DefaultTestTutorID, inv.TutorID)
	s.True(dec("100").Equal(inv.Subtotal))
	s.True(dec("19").Equal(inv.VATAmount))
	s.True(dec("119").Equal(inv.TotalAmount))
	s.True(dec("19").Equal(inv.Items[0].VATRate), "item vat defaults to the standard rate")
	s.Equal(1, inv.Items[0].Position)
	s.Equal(inv.ID, inv.Items[0].InvoiceID)

	// sender snapshot and recipient fallback
	s.Equal(profile.CompanyName, inv.SenderData.CompanyName)
	s.Equal(profile.IBAN, inv.SenderData.IBAN)
	s.Equal("Familie Vogel", inv.RecipientName)
	s.Equal("80331", inv.RecipientAddress.Zip)

	// default dates
	s.False(inv.IssueDate.IsZero())
	s.Require().NotNil(inv.DueDate)
	s.True(inv.IssueDate.AddDays(s.GetConfig().Invoice.DefaultDueDays).Equal(inv.DueDate.Time))

	s.Equal(int64(1001), s.nextNumber())

	stored, err := s.service.GetInvoice(s.GetContext(), inv.ID)
	s.Require().NoError(err)
	s.Equal(inv.FullInvoiceCode, stored.FullInvoiceCode)
	s.Len(stored.Items, 1)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceSequence() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	first, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)
	second, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	s.Equal(int64(1000), first.InvoiceNumber)
	s.Equal(int64(1001), second.InvoiceNumber)
	s.NotEqual(first.FullInvoiceCode, second.FullInvoiceCode)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceWithDiscount() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	req := s.createRequest(hourItem("2", "50.00"))
	req.Adjustments = []dto.InvoiceAdjustmentRequest{{
		Label: "Geschwisterrabatt",
		Type:  types.AdjustmentTypeDiscount,
		Value: "10",
		Unit:  types.DiscountUnitPercent,
	}}

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Require().NoError(err)
	s.True(dec("90").Equal(resp.Subtotal))
	s.True(dec("17.10").Equal(resp.VATAmount))
	s.True(dec("-10").Equal(resp.TotalAdjustmentAmount))
	s.True(dec("107.10").Equal(resp.TotalAmount))
	s.True(dec("10").Equal(resp.Adjustments[0].Amount))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceSmallBusiness() {
	s.CreateBusinessProfile(s.GetContext(), 1000, true)

	resp, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("2", "50.00")))
	s.Require().NoError(err)
	s.True(resp.IsSmallBusiness)
	s.True(resp.VATAmount.IsZero())
	s.True(dec("100").Equal(resp.TotalAmount))
	s.True(resp.Items[0].VATRate.IsZero())

	// the request may override the regime of the profile
	req := s.createRequest(hourItem("2", "50.00"))
	req.IsSmallBusiness = lo.ToPtr(false)
	resp, err = s.service.CreateInvoice(s.GetContext(), req)
	s.Require().NoError(err)
	s.False(resp.IsSmallBusiness)
	s.True(dec("19").Equal(resp.VATAmount))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceWithoutProfile() {
	_, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().Error(err)
	s.True(ierr.IsPrecondition(err))
	s.Equal(0, s.profileStore.LockCalls())
	s.Equal(0, s.invoiceStore.Len())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceInvalidLinesKeepCounter() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	_, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("-1", "40")))
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Contains(ierr.ReportableDetails(err), "items[0].quantity")

	s.Equal(int64(1000), s.nextNumber())
	s.Equal(0, s.invoiceStore.Len())
	s.Equal(1, s.GetDB().Rollbacks())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceConflictKeepsCounter() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	// a number taken outside the sequencer, e.g. imported data
	taken := &invoice.Invoice{
		ID:              "inv_imported",
		InvoiceNumber:   1000,
		FullInvoiceCode: "RE-IMPORT",
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.invoiceStore.Create(s.GetContext(), taken))

	_, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().Error(err)
	s.True(ierr.IsAlreadyExists(err))
	s.Equal(int64(1000), s.nextNumber())
	s.Equal(1, s.invoiceStore.Len())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceForeignStudent() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	req := s.createRequest(hourItem("1", "40"))
	req.StudentID = lo.ToPtr("stu_unknown")
	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
	s.Equal(0, s.profileStore.LockCalls())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRetriesLockTimeouts() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	s.profileStore.FailNextLocks(2)

	resp, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)
	s.Equal(int64(1000), resp.InvoiceNumber)
	s.Equal(1, s.invoiceStore.Len())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceLockContention() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	s.profileStore.FailNextLocks(10)

	_, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().Error(err)
	s.True(ierr.IsUnavailable(err))
	s.Equal(0, s.invoiceStore.Len())
	s.Equal(int64(1000), s.nextNumber())
}

func (s *InvoiceServiceSuite) TestSnapshotSurvivesProfileEdits() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	_, err = s.profileService.UpsertBusinessProfile(s.GetContext(), dto.UpsertBusinessProfileRequest{
		CompanyName: "Berger Nachhilfe GmbH",
		City:        "Hamburg",
		IBAN:        "DE02120300000000202051",
	})
	s.Require().NoError(err)

	stored, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal("Lernstudio Berger", stored.SenderData.CompanyName)
	s.Equal("Berlin", stored.SenderData.Address.City)
	s.Equal("DE89370400440532013000", stored.SenderData.IBAN)

	next, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)
	s.Equal("Berger Nachhilfe GmbH", next.SenderData.CompanyName)
	s.Equal(int64(1001), next.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestGetInvoiceOfAnotherTutor() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	other := testutil.ContextForTutor("tut_other")
	_, err = s.service.GetInvoice(other, created.ID)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.UpdateInvoiceStatus(other, created.ID, dto.UpdateInvoiceStatusRequest{IsPaid: lo.ToPtr(true)})
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestListInvoices() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	for i := 0; i < 3; i++ {
		_, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
		s.Require().NoError(err)
	}
	paid := s.createRequest(hourItem("1", "40"))
	paid.IsPaid = true
	_, err := s.service.CreateInvoice(s.GetContext(), paid)
	s.Require().NoError(err)

	all, err := s.service.ListInvoices(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Len(all.Items, 4)
	s.Equal(4, all.Pagination.Total)

	filter := types.NewInvoiceFilter()
	filter.IsPaid = lo.ToPtr(false)
	open, err := s.service.ListInvoices(s.GetContext(), filter)
	s.Require().NoError(err)
	s.Len(open.Items, 3)

	mine, err := s.service.ListInvoices(testutil.ContextForTutor("tut_other"), nil)
	s.Require().NoError(err)
	s.Empty(mine.Items)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRecalculates() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	update := dto.UpdateInvoiceRequest{
		InvoiceContent: dto.InvoiceContent{
			StudentID: lo.ToPtr(s.testData.student.ID),
			Subject:   "Nachhilfe Oktober, korrigiert",
			Items: []dto.InvoiceItemRequest{
				hourItem("2", "50.00"),
				{
					Description: "Lernmaterial",
					Quantity:    "1",
					Unit:        types.ItemUnitPiece,
					UnitPrice:   "30",
					VATRate:     "7",
				},
			},
			Adjustments: []dto.InvoiceAdjustmentRequest{{
				Type:  types.AdjustmentTypeSurcharge,
				Value: "10",
				Unit:  types.DiscountUnitCurrency,
			}},
		},
	}

	resp, err := s.service.UpdateInvoice(s.GetContext(), created.ID, update)
	s.Require().NoError(err)
	s.Equal(created.InvoiceNumber, resp.InvoiceNumber)
	s.Equal(created.FullInvoiceCode, resp.FullInvoiceCode)
	s.True(created.IssueDate.Equal(resp.IssueDate.Time), "issue date is kept")

	// 100 + 30 + 10 net, 19 + 2.10 + 1.90 vat
	s.True(dec("140").Equal(resp.Subtotal))
	s.True(dec("23").Equal(resp.VATAmount))
	s.True(dec("163").Equal(resp.TotalAmount))

	stored, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Len(stored.Items, 2)
	s.Len(stored.Adjustments, 1)
	s.Equal("Lernmaterial", stored.Items[1].Description)
	s.Equal(2, stored.Items[1].Position)
	s.True(dec("163").Equal(stored.TotalAmount))
	s.Equal("Nachhilfe Oktober, korrigiert", stored.Subject)
	s.Equal(int64(1001), s.nextNumber(), "edits never allocate")
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceSwitchesRegime() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("2", "50.00")))
	s.Require().NoError(err)
	s.False(created.IsSmallBusiness)

	update := dto.UpdateInvoiceRequest{
		InvoiceContent:  s.createRequest(hourItem("2", "50.00")).InvoiceContent,
		IsSmallBusiness: lo.ToPtr(true),
	}
	_, err = s.service.UpdateInvoice(s.GetContext(), created.ID, update)
	s.Require().NoError(err)

	stored, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.True(stored.IsSmallBusiness, "the regime is persisted with the totals it produced")
	s.True(stored.VATAmount.IsZero())
	s.True(dec("100").Equal(stored.TotalAmount))

	// a later edit without override keeps the stored regime
	_, err = s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		InvoiceContent: s.createRequest(hourItem("1", "50.00")).InvoiceContent,
	})
	s.Require().NoError(err)
	stored, err = s.service.GetInvoice(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.True(stored.IsSmallBusiness)
	s.True(stored.VATAmount.IsZero())
	s.True(stored.Items[0].VATRate.IsZero())
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRejectsImmutableFields() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	testCases := []struct {
		name   string
		update dto.UpdateInvoiceRequest
	}{
		{
			name:   "invoice_number",
			update: dto.UpdateInvoiceRequest{InvoiceNumber: json.RawMessage(`1005`)},
		},
		{
			name:   "full_invoice_code",
			update: dto.UpdateInvoiceRequest{FullInvoiceCode: json.RawMessage(`"RE-99"`)},
		},
		{
			name:   "sender_data",
			update: dto.UpdateInvoiceRequest{SenderData: json.RawMessage(`{"company_name":"x"}`)},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.UpdateInvoice(s.GetContext(), created.ID, tc.update)
			s.Require().Error(err)
			s.True(ierr.IsInvalidOperation(err))
			s.Contains(ierr.ReportableDetails(err), tc.name)
		})
	}

	stored, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(created.FullInvoiceCode, stored.FullInvoiceCode)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceInvalidLinesKeepStoredInvoice() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	_, err = s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		InvoiceContent: dto.InvoiceContent{
			Items: []dto.InvoiceItemRequest{hourItem("1", "-40")},
		},
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	stored, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.True(created.TotalAmount.Equal(stored.TotalAmount))
	s.True(dec("40").Equal(stored.Items[0].UnitPrice))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceStatus() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	resp, err := s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, dto.UpdateInvoiceStatusRequest{
		IsSent: lo.ToPtr(true),
	})
	s.Require().NoError(err)
	s.True(resp.IsSent)
	s.False(resp.IsPaid)

	resp, err = s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, dto.UpdateInvoiceStatusRequest{
		IsPaid: lo.ToPtr(true),
	})
	s.Require().NoError(err)
	s.True(resp.IsSent)
	s.True(resp.IsPaid)
	s.True(created.TotalAmount.Equal(resp.TotalAmount))

	_, err = s.service.UpdateInvoiceStatus(s.GetContext(), created.ID, dto.UpdateInvoiceStatusRequest{})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestPreviewInvoicePdf() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)

	s.GetPDFGenerator().On("RenderInvoicePdf", mock.Anything, mock.MatchedBy(func(data *pdf.InvoiceData) bool {
		return data.Sender.CompanyName == "Lernstudio Berger" &&
			data.Recipient.Name == "Familie Vogel" &&
			len(data.Items) == 1
	})).Return([]byte("%PDF-1.7"), nil).Once()

	out, err := s.service.PreviewInvoicePdf(s.GetContext(), s.createRequest(hourItem("2", "50.00")))
	s.Require().NoError(err)
	s.Equal([]byte("%PDF-1.7"), out)
	s.GetPDFGenerator().AssertExpectations(s.T())

	s.Equal(0, s.invoiceStore.Len())
	s.Equal(int64(1000), s.nextNumber())
	s.Equal(0, s.profileStore.LockCalls())
}

func (s *InvoiceServiceSuite) TestPreviewInvoicePdfWithoutProfile() {
	_, err := s.service.PreviewInvoicePdf(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().Error(err)
	s.True(ierr.IsPrecondition(err))
	s.GetPDFGenerator().AssertNotCalled(s.T(), "RenderInvoicePdf", mock.Anything, mock.Anything)
}

func (s *InvoiceServiceSuite) TestGetInvoicePdfArchives() {
	s.setupService(true)
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	s.GetPDFGenerator().On("RenderInvoicePdf", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	s.GetS3().On("UploadDocument", mock.Anything, mock.MatchedBy(func(doc *s3.Document) bool {
		return doc.ID == created.ID && doc.TutorID == testutil.DefaultTestTutorID
	})).Return(errors.New("bucket unavailable")).Once()

	out, err := s.service.GetInvoicePdf(s.GetContext(), created.ID)
	s.Require().NoError(err, "archival failures do not fail the download")
	s.Equal([]byte("%PDF"), out)
	s.GetS3().AssertExpectations(s.T())
}

func (s *InvoiceServiceSuite) TestGetInvoicePdfWithoutArchive() {
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	s.GetPDFGenerator().On("RenderInvoicePdf", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)

	out, err := s.service.GetInvoicePdf(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal([]byte("%PDF"), out)
	s.GetS3().AssertNotCalled(s.T(), "UploadDocument", mock.Anything, mock.Anything)

	_, err = s.service.GetInvoicePdfURL(s.GetContext(), created.ID)
	s.Require().Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestGetInvoicePdfURL() {
	s.setupService(true)
	s.CreateBusinessProfile(s.GetContext(), 1000, false)
	created, err := s.service.CreateInvoice(s.GetContext(), s.createRequest(hourItem("1", "40")))
	s.Require().NoError(err)

	s.GetPDFGenerator().On("RenderInvoicePdf", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	s.GetS3().On("UploadDocument", mock.Anything, mock.Anything).Return(nil)
	s.GetS3().On("GetPresignedUrl", mock.Anything, testutil.DefaultTestTutorID, created.ID, s3.DocumentTypeInvoice).
		Return("https://bucket.example/invoice.pdf", nil)

	resp, err := s.service.GetInvoicePdfURL(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal("https://bucket.example/invoice.pdf", resp.URL)
	s.GetS3().AssertNumberOfCalls(s.T(), "UploadDocument", 1)
}
