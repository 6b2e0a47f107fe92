package pdf

import (
	"context"
	"encoding/json"
	"fmt"

	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/sentry"
	"github.com/tutorbook/tutorbook/internal/typst"
)

const invoiceTemplate = "invoice.typ"

// Generator defines the interface for PDF generation operations
type Generator interface {
	RenderInvoicePdf(ctx context.Context, data *InvoiceData) ([]byte, error)
}

type service struct {
	typst  typst.Compiler
	sentry *sentry.Service
	logger *logger.Logger
}

// NewGenerator creates a new PDF service
func NewGenerator(compiler typst.Compiler, sentryService *sentry.Service, logger *logger.Logger) Generator {
	return &service{
		typst:  compiler,
		sentry: sentryService,
		logger: logger,
	}
}

// RenderInvoicePdf implements Generator.RenderInvoicePdf
func (s *service) RenderInvoicePdf(ctx context.Context, data *InvoiceData) ([]byte, error) {
	span, ctx := s.sentry.StartRenderSpan(ctx, "pdf.render_invoice", map[string]interface{}{
		"invoice_id": data.ID,
	})
	if span != nil {
		defer span.Finish()
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to marshal invoice data").
			Mark(ierr.ErrSystem)
	}

	pdf, err := s.typst.CompileTemplate(
		ctx,
		invoiceTemplate,
		jsonData,
		typst.WithOutputFile(fmt.Sprintf("invoice-%s.pdf", data.ID)),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to compile invoice template").
			Mark(ierr.ErrSystem)
	}

	s.logger.Debugw("rendered invoice pdf", "invoice_id", data.ID, "bytes", len(pdf))
	return pdf, nil
}
