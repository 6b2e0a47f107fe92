package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `id, tutor_id, student_id, course_registration_id, invoice_number, full_invoice_code,
	issue_date, delivery_date_start, delivery_date_end, due_date, subject, header_text, footer_text,
	recipient_name, recipient_address, sender_data, subtotal, vat_amount, total_adjustment_amount,
	total_amount, is_paid, is_sent, is_small_business, status, created_at, updated_at`

const invoiceItemColumns = `id, invoice_id, position, description, quantity, unit, unit_price,
	discount_value, discount_unit, vat_rate, total_price, created_at`

const invoiceAdjustmentColumns = `id, invoice_id, position, label, type, value, unit, amount, created_at`

// Create inserts the header and all of its lines. Callers run it inside a
// transaction so a failing line leaves no header behind.
func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
	INSERT INTO invoices (` + invoiceColumns + `)
	VALUES (
		:id, :tutor_id, :student_id, :course_registration_id, :invoice_number, :full_invoice_code,
		:issue_date, :delivery_date_start, :delivery_date_end, :due_date, :subject, :header_text, :footer_text,
		:recipient_name, :recipient_address, :sender_data, :subtotal, :vat_amount, :total_adjustment_amount,
		:total_amount, :is_paid, :is_sent, :is_small_business, :status, :created_at, :updated_at
	)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, inv); err != nil {
		return postgres.WrapError(err, "invoice")
	}
	if err := r.insertLines(ctx, inv); err != nil {
		return err
	}

	r.logger.Debugw("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"items", len(inv.Items),
		"adjustments", len(inv.Adjustments),
	)
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND tutor_id = $2 AND status = $3`

	var inv invoice.Invoice
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, id, types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "invoice")
	}

	inv.Items = make([]*invoice.InvoiceItem, 0)
	itemsQuery := `SELECT ` + invoiceItemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY position, id`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &inv.Items, itemsQuery, inv.ID); err != nil {
		return nil, postgres.WrapError(err, "invoice item")
	}

	inv.Adjustments = make([]*invoice.InvoiceAdjustment, 0)
	adjustmentsQuery := `SELECT ` + invoiceAdjustmentColumns + ` FROM invoice_adjustments WHERE invoice_id = $1 ORDER BY position, id`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &inv.Adjustments, adjustmentsQuery, inv.ID); err != nil {
		return nil, postgres.WrapError(err, "invoice adjustment")
	}

	return &inv, nil
}

// List returns invoice headers without their lines
func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	conds := r.conditions(ctx, filter)
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + conds.where() +
		conds.page(filter.QueryFilter, "", types.InvoiceSortColumns...)

	invoices := make([]*invoice.Invoice, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, conds.args...); err != nil {
		return nil, postgres.WrapError(err, "invoice")
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	conds := r.conditions(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM invoices`+conds.where(), conds.args...); err != nil {
		return 0, postgres.WrapError(err, "invoice")
	}
	return count, nil
}

func (r *invoiceRepository) conditions(ctx context.Context, filter *types.InvoiceFilter) *conditions {
	conds := tutorScoped(types.GetTutorID(ctx), "").
		add("status = ?", types.StatusPublished)
	if filter.StudentID != "" {
		conds.add("student_id = ?", filter.StudentID)
	}
	if filter.IsPaid != nil {
		conds.add("is_paid = ?", *filter.IsPaid)
	}
	if filter.IsSent != nil {
		conds.add("is_sent = ?", *filter.IsSent)
	}
	return conds
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()

	// invoice_number, full_invoice_code and sender_data are fixed at issuance
	query := `
	UPDATE invoices SET
		student_id = :student_id,
		course_registration_id = :course_registration_id,
		issue_date = :issue_date,
		delivery_date_start = :delivery_date_start,
		delivery_date_end = :delivery_date_end,
		due_date = :due_date,
		subject = :subject,
		header_text = :header_text,
		footer_text = :footer_text,
		recipient_name = :recipient_name,
		recipient_address = :recipient_address,
		subtotal = :subtotal,
		vat_amount = :vat_amount,
		total_adjustment_amount = :total_adjustment_amount,
		total_amount = :total_amount,
		is_paid = :is_paid,
		is_sent = :is_sent,
		is_small_business = :is_small_business,
		updated_at = :updated_at
	WHERE id = :id AND tutor_id = :tutor_id AND status = 'published'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, inv)
	if err != nil {
		return postgres.WrapError(err, "invoice")
	}
	return requireAffected(result, "invoice")
}

func (r *invoiceRepository) ReplaceLines(ctx context.Context, inv *invoice.Invoice) error {
	q := r.db.GetQuerier(ctx)
	if _, err := q.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return postgres.WrapError(err, "invoice item")
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM invoice_adjustments WHERE invoice_id = $1`, inv.ID); err != nil {
		return postgres.WrapError(err, "invoice adjustment")
	}
	if err := r.insertLines(ctx, inv); err != nil {
		return err
	}

	r.logger.Debugw("replaced invoice lines",
		"invoice_id", inv.ID,
		"items", len(inv.Items),
		"adjustments", len(inv.Adjustments),
	)
	return nil
}

func (r *invoiceRepository) insertLines(ctx context.Context, inv *invoice.Invoice) error {
	q := r.db.GetQuerier(ctx)
	if len(inv.Items) > 0 {
		query := `
		INSERT INTO invoice_items (` + invoiceItemColumns + `)
		VALUES (
			:id, :invoice_id, :position, :description, :quantity, :unit, :unit_price,
			:discount_value, :discount_unit, :vat_rate, :total_price, :created_at
		)`
		if _, err := q.NamedExecContext(ctx, query, inv.Items); err != nil {
			return postgres.WrapError(err, "invoice item")
		}
	}
	if len(inv.Adjustments) > 0 {
		query := `
		INSERT INTO invoice_adjustments (` + invoiceAdjustmentColumns + `)
		VALUES (:id, :invoice_id, :position, :label, :type, :value, :unit, :amount, :created_at)`
		if _, err := q.NamedExecContext(ctx, query, inv.Adjustments); err != nil {
			return postgres.WrapError(err, "invoice adjustment")
		}
	}
	return nil
}

func (r *invoiceRepository) SumOpenAmount(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE tutor_id = $1 AND status = $2 AND is_paid = FALSE`

	var sum decimal.Decimal
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &sum, query, types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return decimal.Zero, postgres.WrapError(err, "invoice")
	}
	return sum, nil
}
