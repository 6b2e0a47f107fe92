package postgres

import (
	"context"
	"time"

	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/domain/businessprofile"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
)

type businessProfileRepository struct {
	db            *postgres.DB
	logger        *logger.Logger
	lockTimeoutMs int
}

func NewBusinessProfileRepository(db *postgres.DB, logger *logger.Logger, cfg *config.Configuration) businessprofile.Repository {
	return &businessProfileRepository{
		db:            db,
		logger:        logger,
		lockTimeoutMs: cfg.Postgres.LockTimeoutMs,
	}
}

const businessProfileColumns = `id, tutor_id, logo_url, website, phone, email, street, postcode, city, country,
	company_name, manager_name, tax_number, vat_id, is_small_business, price_input_type,
	bank_name, account_holder, iban, bic, default_intro_text, next_invoice_number,
	created_at, updated_at`

func (r *businessProfileRepository) GetByTutorID(ctx context.Context, tutorID string) (*businessprofile.BusinessProfile, error) {
	query := `SELECT ` + businessProfileColumns + ` FROM business_profiles WHERE tutor_id = $1`

	var p businessprofile.BusinessProfile
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, tutorID); err != nil {
		return nil, postgres.WrapError(err, "business profile")
	}
	return &p, nil
}

func (r *businessProfileRepository) GetForUpdate(ctx context.Context, tutorID string) (*businessprofile.BusinessProfile, error) {
	if _, ok := postgres.GetTx(ctx); !ok {
		return nil, ierr.NewError("row lock requested outside of a transaction").
			Mark(ierr.ErrSystem)
	}

	if err := r.db.SetLockTimeout(ctx, r.lockTimeoutMs); err != nil {
		return nil, postgres.WrapError(err, "business profile")
	}

	query := `SELECT ` + businessProfileColumns + ` FROM business_profiles WHERE tutor_id = $1 FOR UPDATE`

	var p businessprofile.BusinessProfile
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, tutorID); err != nil {
		return nil, postgres.WrapError(err, "business profile")
	}
	r.logger.Debugw("locked business profile", "tutor_id", tutorID, "next_invoice_number", p.NextInvoiceNumber)
	return &p, nil
}

func (r *businessProfileRepository) Upsert(ctx context.Context, p *businessprofile.BusinessProfile) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
	INSERT INTO business_profiles (
		id, tutor_id, logo_url, website, phone, email, street, postcode, city, country,
		company_name, manager_name, tax_number, vat_id, is_small_business, price_input_type,
		bank_name, account_holder, iban, bic, default_intro_text, next_invoice_number,
		created_at, updated_at
	) VALUES (
		:id, :tutor_id, :logo_url, :website, :phone, :email, :street, :postcode, :city, :country,
		:company_name, :manager_name, :tax_number, :vat_id, :is_small_business, :price_input_type,
		:bank_name, :account_holder, :iban, :bic, :default_intro_text, :next_invoice_number,
		:created_at, :updated_at
	)
	ON CONFLICT (tutor_id) DO UPDATE SET
		logo_url = EXCLUDED.logo_url,
		website = EXCLUDED.website,
		phone = EXCLUDED.phone,
		email = EXCLUDED.email,
		street = EXCLUDED.street,
		postcode = EXCLUDED.postcode,
		city = EXCLUDED.city,
		country = EXCLUDED.country,
		company_name = EXCLUDED.company_name,
		manager_name = EXCLUDED.manager_name,
		tax_number = EXCLUDED.tax_number,
		vat_id = EXCLUDED.vat_id,
		is_small_business = EXCLUDED.is_small_business,
		price_input_type = EXCLUDED.price_input_type,
		bank_name = EXCLUDED.bank_name,
		account_holder = EXCLUDED.account_holder,
		iban = EXCLUDED.iban,
		bic = EXCLUDED.bic,
		default_intro_text = EXCLUDED.default_intro_text,
		next_invoice_number = EXCLUDED.next_invoice_number,
		updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, p); err != nil {
		return postgres.WrapError(err, "business profile")
	}
	r.logger.Debugw("upserted business profile", "tutor_id", p.TutorID)
	return nil
}

func (r *businessProfileRepository) AdvanceInvoiceCounter(ctx context.Context, tutorID string) (int64, error) {
	query := `
	UPDATE business_profiles
	SET next_invoice_number = next_invoice_number + 1, updated_at = $2
	WHERE tutor_id = $1
	RETURNING next_invoice_number
	`

	var next int64
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &next, query, tutorID, time.Now().UTC()); err != nil {
		return 0, postgres.WrapError(err, "business profile")
	}
	return next, nil
}
