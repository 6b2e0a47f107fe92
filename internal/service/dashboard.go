package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/types"
)

type DashboardService interface {
	// GetStats summarizes the current calendar month in UTC
	GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	ServiceParams
	now func() time.Time
}

func NewDashboardService(params ServiceParams) DashboardService {
	return &dashboardService{
		ServiceParams: params,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	now := s.now()
	monthStart := types.NewDate(now.Year(), now.Month(), 1)
	monthEnd := types.Date{Time: monthStart.AddDate(0, 1, -1)}

	resp := &dto.DashboardStatsResponse{Month: monthStart.Format("2006-01")}

	// the queries are independent
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		resp.EstimatedRevenue, err = s.CourseRepo.SumFees(ctx, &types.CourseFilter{
			QueryFilter:   types.NewNoLimitQueryFilter(),
			StartDateFrom: &monthStart,
			StartDateTo:   &monthEnd,
		})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.CurrentRevenue, err = s.CourseRepo.SumFees(ctx, &types.CourseFilter{
			QueryFilter:   types.NewNoLimitQueryFilter(),
			IsPaid:        lo.ToPtr(true),
			StartDateFrom: &monthStart,
			StartDateTo:   &monthEnd,
		})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.ActiveStudents, err = s.StudentRepo.Count(ctx, &types.StudentFilter{
			QueryFilter:   types.NewNoLimitQueryFilter(),
			StudentStatus: types.StudentStatusActive,
		})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.MonthlyLessonCount, err = s.LessonRepo.Count(ctx, &types.LessonFilter{
			QueryFilter: types.NewNoLimitQueryFilter(),
			StartDate:   &monthStart,
			EndDate:     &monthEnd,
		})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.OpenInvoiceAmount, err = s.InvoiceRepo.SumOpenAmount(ctx)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
