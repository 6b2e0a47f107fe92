package service

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/cache"
	"github.com/tutorbook/tutorbook/internal/domain/businessprofile"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
)

type BusinessProfileService interface {
	GetBusinessProfile(ctx context.Context) (*dto.BusinessProfileResponse, error)
	UpsertBusinessProfile(ctx context.Context, req dto.UpsertBusinessProfileRequest) (*dto.BusinessProfileResponse, error)
	GetNextInvoiceNumber(ctx context.Context) (*dto.NextInvoiceNumberResponse, error)
}

type businessProfileService struct {
	ServiceParams
	sequencer InvoiceSequencer
}

func NewBusinessProfileService(params ServiceParams, sequencer InvoiceSequencer) BusinessProfileService {
	return &businessProfileService{
		ServiceParams: params,
		sequencer:     sequencer,
	}
}

func businessProfileCacheKey(tutorID string) string {
	return cache.GenerateKey(cache.PrefixBusinessProfile, tutorID)
}

// GetBusinessProfile serves reads from the cache. The sequencer never reads
// through here.
func (s *businessProfileService) GetBusinessProfile(ctx context.Context) (*dto.BusinessProfileResponse, error) {
	tutorID := types.GetTutorID(ctx)
	key := businessProfileCacheKey(tutorID)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if p, ok := cached.(*businessprofile.BusinessProfile); ok {
			c := *p
			return &dto.BusinessProfileResponse{BusinessProfile: &c}, nil
		}
	}

	p, err := s.BusinessProfileRepo.GetByTutorID(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	c := *p
	s.Cache.Set(ctx, key, &c, 0)
	return &dto.BusinessProfileResponse{BusinessProfile: p}, nil
}

func (s *businessProfileService) UpsertBusinessProfile(ctx context.Context, req dto.UpsertBusinessProfileRequest) (*dto.BusinessProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tutorID := types.GetTutorID(ctx)
	var profile *businessprofile.BusinessProfile
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		// lock an existing row so a concurrent allocation never sees a half
		// written counter
		existing, err := s.BusinessProfileRepo.GetForUpdate(txCtx, tutorID)
		switch {
		case err == nil:
			profile = existing
		case ierr.IsNotFound(err):
			profile = businessprofile.NewBusinessProfile(tutorID, s.Config.Invoice.DefaultNextNumber)
		default:
			return err
		}

		req.Apply(profile)
		return s.BusinessProfileRepo.Upsert(txCtx, profile)
	})
	if err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, businessProfileCacheKey(tutorID))
	s.Logger.Infow("upserted business profile",
		"tutor_id", tutorID,
		"business_profile_id", profile.ID,
		"next_invoice_number", profile.NextInvoiceNumber)

	return &dto.BusinessProfileResponse{BusinessProfile: profile}, nil
}

func (s *businessProfileService) GetNextInvoiceNumber(ctx context.Context) (*dto.NextInvoiceNumberResponse, error) {
	return s.sequencer.Preview(ctx)
}
