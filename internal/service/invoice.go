package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/domain/businessprofile"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	"github.com/tutorbook/tutorbook/internal/domain/student"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/pdf"
	"github.com/tutorbook/tutorbook/internal/s3"
	"github.com/tutorbook/tutorbook/internal/types"
)

type InvoiceService interface {
	// CreateInvoice allocates the next number and persists the invoice with
	// its lines and derived totals in one transaction
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	// UpdateInvoice replaces metadata and lines, number, code and sender
	// snapshot stay as issued
	UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	UpdateInvoiceStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error)
	// PreviewInvoicePdf renders an unsaved draft, nothing is reserved or stored
	PreviewInvoicePdf(ctx context.Context, req dto.CreateInvoiceRequest) ([]byte, error)
	GetInvoicePdf(ctx context.Context, id string) ([]byte, error)
	// GetInvoicePdfURL archives the current PDF and returns a presigned link
	GetInvoicePdfURL(ctx context.Context, id string) (*dto.InvoicePdfURLResponse, error)
}

type invoiceService struct {
	ServiceParams
	sequencer  InvoiceSequencer
	calculator *invoice.Calculator
	now        func() time.Time
}

func NewInvoiceService(params ServiceParams, sequencer InvoiceSequencer) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		sequencer:     sequencer,
		calculator:    newCalculator(params.Config),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	linked, err := s.resolveLinks(ctx, req.StudentID, req.CourseRegistrationID)
	if err != nil {
		return nil, err
	}

	var inv *invoice.Invoice
	_, err = s.sequencer.Allocate(ctx, func(txCtx context.Context, issuance Issuance) error {
		draft := s.newInvoice(ctx, issuance, req.IsSmallBusiness)
		draft.IsPaid = req.IsPaid
		draft.IsSent = req.IsSent
		s.applyContent(draft, &req.InvoiceContent, linked, types.DateOf(issuance.IssuedAt))

		if _, err := s.calculator.Recalculate(draft); err != nil {
			return err
		}
		if err := s.InvoiceRepo.Create(txCtx, draft); err != nil {
			return err
		}
		inv = draft
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"tutor_id", inv.TutorID,
		"invoice_id", inv.ID,
		"full_invoice_code", inv.FullInvoiceCode,
		"total_amount", inv.TotalAmount.String())
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

// newInvoice starts an invoice for an issuance. The regime comes from the
// request when given, else from the sender snapshot.
func (s *invoiceService) newInvoice(ctx context.Context, issuance Issuance, isSmallBusiness *bool) *invoice.Invoice {
	return &invoice.Invoice{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber:   issuance.InvoiceNumber,
		FullInvoiceCode: issuance.FullInvoiceCode,
		SenderData:      issuance.SenderData,
		IsSmallBusiness: lo.FromPtrOr(isSmallBusiness, issuance.SenderData.IsSmallBusiness),
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// applyContent writes the request onto inv and falls back to the linked
// student's billing block for the recipient
func (s *invoiceService) applyContent(inv *invoice.Invoice, content *dto.InvoiceContent, linked *student.Student, today types.Date) {
	content.ApplyTo(inv, today, s.Config.Invoice.DefaultDueDays, s.calculator.VATRateFor(inv.IsSmallBusiness))
	if linked == nil {
		return
	}
	if inv.RecipientName == "" {
		inv.RecipientName = linked.RecipientName()
	}
	if inv.RecipientAddress.IsEmpty() {
		inv.RecipientAddress = invoice.Address{
			Street:  linked.BillingStreet,
			Zip:     linked.BillingPostcode,
			City:    linked.BillingCity,
			Country: linked.BillingCountry,
		}
	}
}

// resolveLinks checks that the linked student and course belong to the
// tutor and returns the student
func (s *invoiceService) resolveLinks(ctx context.Context, studentID, courseID *string) (*student.Student, error) {
	var linked *student.Student
	if id := lo.FromPtr(studentID); id != "" {
		st, err := s.StudentRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		linked = st
	}
	if id := lo.FromPtr(courseID); id != "" {
		reg, err := s.CourseRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if linked != nil && reg.StudentID != linked.ID {
			return nil, ierr.NewError("course registration belongs to another student").
				WithHint("The course registration does not belong to the selected student").
				WithReportableDetails(map[string]any{
					"course_registration_id": id,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return linked, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return &dto.InvoiceResponse{Invoice: inv}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	linked, err := s.resolveLinks(ctx, req.StudentID, req.CourseRegistrationID)
	if err != nil {
		return nil, err
	}

	var inv *invoice.Invoice
	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := s.InvoiceRepo.Get(txCtx, id)
		if err != nil {
			return err
		}

		if req.IsSmallBusiness != nil {
			existing.IsSmallBusiness = *req.IsSmallBusiness
		}
		// an edit without issue date keeps the issued one
		s.applyContent(existing, &req.InvoiceContent, linked, existing.IssueDate)

		if _, err := s.calculator.Recalculate(existing); err != nil {
			return err
		}
		if err := s.InvoiceRepo.Update(txCtx, existing); err != nil {
			return err
		}
		if err := s.InvoiceRepo.ReplaceLines(txCtx, existing); err != nil {
			return err
		}
		inv = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("updated invoice",
		"tutor_id", inv.TutorID,
		"invoice_id", inv.ID,
		"total_amount", inv.TotalAmount.String())
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsPaid != nil {
		inv.IsPaid = *req.IsPaid
	}
	if req.IsSent != nil {
		inv.IsSent = *req.IsSent
	}
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) PreviewInvoicePdf(ctx context.Context, req dto.CreateInvoiceRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	linked, err := s.resolveLinks(ctx, req.StudentID, req.CourseRegistrationID)
	if err != nil {
		return nil, err
	}

	profile, err := s.BusinessProfileRepo.GetByTutorID(ctx, types.GetTutorID(ctx))
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, errBusinessProfileRequired(err)
		}
		return nil, err
	}

	now := s.now()
	draft := s.newInvoice(ctx, Issuance{
		InvoiceNumber:   profile.NextInvoiceNumber,
		FullInvoiceCode: businessprofile.FormatInvoiceCode(s.Config.Invoice.CodePrefix, profile.NextInvoiceNumber, now),
		SenderData:      invoice.NewSenderData(profile),
		IssuedAt:        now,
	}, req.IsSmallBusiness)
	draft.IsPaid = req.IsPaid
	s.applyContent(draft, &req.InvoiceContent, linked, types.DateOf(now))

	if _, err := s.calculator.Recalculate(draft); err != nil {
		return nil, err
	}
	return s.PDFGenerator.RenderInvoicePdf(ctx, pdf.BuildInvoiceData(draft))
}

func (s *invoiceService) GetInvoicePdf(ctx context.Context, id string) ([]byte, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.PDFGenerator.RenderInvoicePdf(ctx, pdf.BuildInvoiceData(inv))
	if err != nil {
		return nil, err
	}

	// archival is best effort, the rendered document is still returned
	if s.S3 != nil {
		if err := s.S3.UploadDocument(ctx, s3.NewInvoicePdf(inv.TutorID, inv.ID, data)); err != nil {
			s.Logger.Warnw("failed to archive invoice pdf",
				"invoice_id", inv.ID,
				"error", err)
			s.Sentry.CaptureException(err)
		}
	}
	return data, nil
}

func (s *invoiceService) GetInvoicePdfURL(ctx context.Context, id string) (*dto.InvoicePdfURLResponse, error) {
	if s.S3 == nil {
		return nil, ierr.NewError("pdf archival disabled").
			WithHint("Download links are not available, request the PDF directly").
			Mark(ierr.ErrInvalidOperation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// always re-render, edits must reach the archived copy
	data, err := s.PDFGenerator.RenderInvoicePdf(ctx, pdf.BuildInvoiceData(inv))
	if err != nil {
		return nil, err
	}
	if err := s.S3.UploadDocument(ctx, s3.NewInvoicePdf(inv.TutorID, inv.ID, data)); err != nil {
		return nil, err
	}

	url, err := s.S3.GetPresignedUrl(ctx, inv.TutorID, inv.ID, s3.DocumentTypeInvoice)
	if err != nil {
		return nil, err
	}
	return &dto.InvoicePdfURLResponse{URL: url}, nil
}
