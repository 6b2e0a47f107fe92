package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/testutil"
	"github.com/tutorbook/tutorbook/internal/types"
)

type InvoiceSequencerSuite struct {
	testutil.BaseServiceTestSuite
	sequencer    InvoiceSequencer
	profileStore *testutil.InMemoryBusinessProfileStore
}

func TestInvoiceSequencer(t *testing.T) {
	suite.Run(t, new(InvoiceSequencerSuite))
}

func (s *InvoiceSequencerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.profileStore = s.GetStores().BusinessProfileRepo.(*testutil.InMemoryBusinessProfileStore)
	s.sequencer = NewInvoiceSequencer(newTestServiceParams(&s.BaseServiceTestSuite, false))
}

func (s *InvoiceSequencerSuite) nextNumber(ctx context.Context) int64 {
	p, err := s.profileStore.GetByTutorID(ctx, types.GetTutorID(ctx))
	s.Require().NoError(err)
	return p.NextInvoiceNumber
}

func noopIssue(context.Context, Issuance) error { return nil }

func (s *InvoiceSequencerSuite) TestAllocateAdvancesCounter() {
	ctx := s.GetContext()
	s.CreateBusinessProfile(ctx, 1000, false)

	first, err := s.sequencer.Allocate(ctx, noopIssue)
	s.Require().NoError(err)
	second, err := s.sequencer.Allocate(ctx, noopIssue)
	s.Require().NoError(err)

	s.Equal(int64(1000), first.InvoiceNumber)
	s.Equal(int64(1001), second.InvoiceNumber)
	s.Equal(fmt.Sprintf("RE-1000%s", first.IssuedAt.Format("0601")), first.FullInvoiceCode)
	s.Equal("Lernstudio Berger", first.SenderData.CompanyName)
	s.Equal("10115", first.SenderData.Address.Zip)
	s.Equal(int64(1002), s.nextNumber(ctx))
	s.Equal(2, s.GetDB().Commits())
}

func (s *InvoiceSequencerSuite) TestAllocateIssueSeesReservedNumber() {
	ctx := s.GetContext()
	s.CreateBusinessProfile(ctx, 42, true)

	var seen Issuance
	_, err := s.sequencer.Allocate(ctx, func(txCtx context.Context, issuance Issuance) error {
		s.NotNil(testutil.TxFromContext(txCtx), "issue must run inside the allocating transaction")
		seen = issuance
		return nil
	})
	s.Require().NoError(err)
	s.Equal(int64(42), seen.InvoiceNumber)
	s.True(seen.SenderData.IsSmallBusiness)
}

func (s *InvoiceSequencerSuite) TestAllocateRollsBackOnIssueFailure() {
	ctx := s.GetContext()
	s.CreateBusinessProfile(ctx, 1000, false)

	boom := errors.New("insert failed")
	_, err := s.sequencer.Allocate(ctx, func(context.Context, Issuance) error { return boom })
	s.Require().Error(err)
	s.ErrorIs(err, boom)

	s.Equal(int64(1000), s.nextNumber(ctx))
	s.Equal(1, s.GetDB().Rollbacks())
	s.Equal(1, s.profileStore.LockCalls(), "issue failures are not retried")

	// the next allocation reuses the number
	issued, err := s.sequencer.Allocate(ctx, noopIssue)
	s.Require().NoError(err)
	s.Equal(int64(1000), issued.InvoiceNumber)
}

func (s *InvoiceSequencerSuite) TestAllocateWithoutProfile() {
	_, err := s.sequencer.Allocate(s.GetContext(), noopIssue)
	s.Require().Error(err)
	s.True(ierr.IsPrecondition(err))
	s.Equal(0, s.profileStore.LockCalls(), "no lock is taken without a profile")
}

func (s *InvoiceSequencerSuite) TestAllocateRetriesLockTimeouts() {
	ctx := s.GetContext()
	s.CreateBusinessProfile(ctx, 1000, false)
	s.profileStore.FailNextLocks(2)

	issued, err := s.sequencer.Allocate(ctx, noopIssue)
	s.Require().NoError(err)
	s.Equal(int64(1000), issued.InvoiceNumber)
	s.Equal(3, s.profileStore.LockCalls())
	s.Equal(int64(1001), s.nextNumber(ctx))
}

func (s *InvoiceSequencerSuite) TestAllocateGivesUpAfterMaxAttempts() {
	ctx := s.GetContext()
	s.CreateBusinessProfile(ctx, 1000, false)
	s.profileStore.FailNextLocks(10)

	_, err := s.sequencer.Allocate(ctx, noopIssue)
	s.Require().Error(err)
	s.True(ierr.IsUnavailable(err))
	s.Equal(s.GetConfig().Invoice.LockRetryMaxAttempts, s.profileStore.LockCalls())
	s.Equal(int64(1000), s.nextNumber(ctx))
	s.EqualValues(s.GetConfig().Invoice.LockRetryMaxAttempts, ierr.ReportableDetails(err)["attempts"])
}

func (s *InvoiceSequencerSuite) TestConcurrentAllocationsAreContiguous() {
	ctx := s.GetContext()
	s.CreateBusinessProfile(ctx, 1000, false)

	const n = 12
	var (
		mu      sync.Mutex
		numbers []int64
		codes   = make(map[string]struct{})
		wg      conc.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Go(func() {
			issued, err := s.sequencer.Allocate(ctx, noopIssue)
			s.NoError(err)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			numbers = append(numbers, issued.InvoiceNumber)
			codes[issued.FullInvoiceCode] = struct{}{}
		})
	}
	wg.Wait()

	s.Require().Len(numbers, n)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, num := range numbers {
		s.Equal(int64(1000+i), num)
	}
	s.Len(codes, n)
	s.Equal(int64(1000+n), s.nextNumber(ctx))
}

func (s *InvoiceSequencerSuite) TestSequencesArePerTutor() {
	ctxA := s.GetContext()
	ctxB := testutil.ContextForTutor("tut_other")
	s.CreateBusinessProfile(ctxA, 1000, false)
	s.CreateBusinessProfile(ctxB, 1000, false)

	a, err := s.sequencer.Allocate(ctxA, noopIssue)
	s.Require().NoError(err)
	b, err := s.sequencer.Allocate(ctxB, noopIssue)
	s.Require().NoError(err)

	s.Equal(a.InvoiceNumber, b.InvoiceNumber)
}

func (s *InvoiceSequencerSuite) TestPreview() {
	ctx := s.GetContext()
	s.CreateBusinessProfile(ctx, 1005, false)

	resp, err := s.sequencer.Preview(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1005), resp.NextNumber)
	s.Contains(resp.FullInvoiceCodePreview, "RE-1005")
	s.False(resp.TaxConfig.IsSmallBusiness)
	s.True(dec("19").Equal(resp.TaxConfig.VATRate))

	// preview reserves nothing
	_, err = s.sequencer.Preview(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1005), s.nextNumber(ctx))
	s.Equal(0, s.profileStore.LockCalls())
}

func (s *InvoiceSequencerSuite) TestPreviewSmallBusiness() {
	ctx := s.GetContext()
	s.CreateBusinessProfile(ctx, 1, true)

	resp, err := s.sequencer.Preview(ctx)
	s.Require().NoError(err)
	s.True(resp.TaxConfig.IsSmallBusiness)
	s.True(resp.TaxConfig.VATRate.IsZero())
}

func (s *InvoiceSequencerSuite) TestPreviewWithoutProfile() {
	_, err := s.sequencer.Preview(s.GetContext())
	s.Require().Error(err)
	s.True(ierr.IsPrecondition(err))
}
