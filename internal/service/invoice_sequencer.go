package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/cache"
	"github.com/tutorbook/tutorbook/internal/domain/businessprofile"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

// Issuance is what the sequencer hands to the issuing step: the reserved
// number, its display code and the sender snapshot, all taken under the
// profile row lock.
type Issuance struct {
	InvoiceNumber   int64
	FullInvoiceCode string
	SenderData      invoice.SenderData
	IssuedAt        time.Time
}

// IssueFunc persists the invoice for an issuance. It runs inside the
// allocating transaction, an error rolls the reservation back.
type IssueFunc func(ctx context.Context, issuance Issuance) error

// InvoiceSequencer hands out gapless, per tutor invoice numbers
type InvoiceSequencer interface {
	// Allocate reserves the tutor's next number, runs issue with it and
	// advances the counter, all in one transaction. Lock conflicts are
	// retried as a whole.
	Allocate(ctx context.Context, issue IssueFunc) (*Issuance, error)
	// Preview reads the number the next invoice would get without reserving it
	Preview(ctx context.Context) (*dto.NextInvoiceNumberResponse, error)
}

type invoiceSequencer struct {
	ServiceParams
	calculator *invoice.Calculator
	now        func() time.Time
}

func NewInvoiceSequencer(params ServiceParams) InvoiceSequencer {
	return &invoiceSequencer{
		ServiceParams: params,
		calculator:    newCalculator(params.Config),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func errBusinessProfileRequired(err error) error {
	return ierr.WithError(err).
		WithHint("business profile required: complete your invoice settings before creating invoices").
		Mark(ierr.ErrPrecondition)
}

func (s *invoiceSequencer) Allocate(ctx context.Context, issue IssueFunc) (*Issuance, error) {
	tutorID := types.GetTutorID(ctx)

	// fail fast without taking the lock
	if _, err := s.BusinessProfileRepo.GetByTutorID(ctx, tutorID); err != nil {
		if ierr.IsNotFound(err) {
			return nil, errBusinessProfileRequired(err)
		}
		return nil, err
	}

	var issued *Issuance
	attempt := 0
	operation := func() error {
		attempt++
		issued = nil
		err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
			profile, err := s.BusinessProfileRepo.GetForUpdate(txCtx, tutorID)
			if err != nil {
				if ierr.IsNotFound(err) {
					return errBusinessProfileRequired(err)
				}
				return err
			}

			issuedAt := s.now()
			issuance := Issuance{
				InvoiceNumber:   profile.NextInvoiceNumber,
				FullInvoiceCode: businessprofile.FormatInvoiceCode(s.Config.Invoice.CodePrefix, profile.NextInvoiceNumber, issuedAt),
				SenderData:      invoice.NewSenderData(profile),
				IssuedAt:        issuedAt,
			}
			if err := issue(txCtx, issuance); err != nil {
				return err
			}

			if _, err := s.BusinessProfileRepo.AdvanceInvoiceCounter(txCtx, tutorID); err != nil {
				return err
			}
			issued = &issuance
			return nil
		})
		if err == nil {
			return nil
		}
		if postgres.IsLockTimeout(err) {
			s.Logger.Warnw("invoice number allocation hit a lock conflict",
				"tutor_id", tutorID,
				"attempt", attempt,
				"error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, s.retryPolicy(ctx)); err != nil {
		if postgres.IsLockTimeout(err) {
			s.Sentry.CaptureException(err)
			return nil, ierr.WithError(err).
				WithHint("Invoice numbering is busy, please retry in a moment").
				WithReportableDetails(map[string]any{
					"attempts": attempt,
				}).
				Mark(ierr.ErrUnavailable)
		}
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixBusinessProfile, tutorID))
	s.Sentry.AddBreadcrumb("invoice", "invoice number allocated", map[string]interface{}{
		"tutor_id":          tutorID,
		"invoice_number":    issued.InvoiceNumber,
		"full_invoice_code": issued.FullInvoiceCode,
	})
	s.Logger.Infow("allocated invoice number",
		"tutor_id", tutorID,
		"invoice_number", issued.InvoiceNumber,
		"full_invoice_code", issued.FullInvoiceCode,
		"attempts", attempt)
	return issued, nil
}

// retryPolicy bounds the number of whole transaction attempts
func (s *invoiceSequencer) retryPolicy(ctx context.Context) backoff.BackOff {
	cfg := s.Config.Invoice
	expo := backoff.NewExponentialBackOff()
	if cfg.LockRetryInitialInterval > 0 {
		expo.InitialInterval = cfg.LockRetryInitialInterval
	}
	if cfg.LockRetryMaxElapsedTime > 0 {
		expo.MaxElapsedTime = cfg.LockRetryMaxElapsedTime
	}
	retries := cfg.LockRetryMaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(expo, uint64(retries)), ctx)
}

func (s *invoiceSequencer) Preview(ctx context.Context) (*dto.NextInvoiceNumberResponse, error) {
	profile, err := s.BusinessProfileRepo.GetByTutorID(ctx, types.GetTutorID(ctx))
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, errBusinessProfileRequired(err)
		}
		return nil, err
	}

	return &dto.NextInvoiceNumberResponse{
		NextNumber:             profile.NextInvoiceNumber,
		FullInvoiceCodePreview: businessprofile.FormatInvoiceCode(s.Config.Invoice.CodePrefix, profile.NextInvoiceNumber, s.now()),
		TaxConfig: dto.TaxConfig{
			IsSmallBusiness: profile.IsSmallBusiness,
			VATRate:         s.calculator.VATRateFor(profile.IsSmallBusiness),
		},
	}, nil
}
