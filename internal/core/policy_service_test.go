package core

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type policyFixture struct {
	svc      *policyService
	quotes   *memQuotationRepo
	policies *memPolicyRepo
	now      time.Time
}

func newPolicyFixture(t *testing.T) *policyFixture {
	t.Helper()

	f := &policyFixture{
		quotes:   newMemQuotationRepo(),
		policies: newMemPolicyRepo(),
		now:      time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewPolicyService(f.policies, f.quotes).(*policyService)
	f.svc.clock = func() time.Time { return f.now }
	return f
}

func (f *policyFixture) approvedQuotation(t *testing.T, id string) Quotation {
	t.Helper()

	q := Quotation{
		ID:              id,
		DriverID:        "d1",
		VehicleID:       "v1",
		PaymentMethodID: "pm1",
		IssuedAt:        f.now,
		ExpiresAt:       f.now.AddDate(0, 0, QuotationValidityDays),
		BaseCost:        100000,
		FinalCost:       90000,
		Status:          QuotationStatusApproved,
		TermsAccepted:   true,
		Version:         1,
	}
	require.NoError(t, f.quotes.Create(context.Background(), q))
	return q
}

func TestPolicyService_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a one-year policy from an approved quotation", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")

		p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.NoError(t, err)

		require.NotEmpty(t, p.ID)
		require.True(t, strings.HasPrefix(p.Number, "POL-"))
		require.Equal(t, q.ID, p.QuotationID)
		require.Empty(t, p.RenewedFrom)
		require.Equal(t, PolicyStatusActive, p.Status)

		wantStart := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		require.Equal(t, wantStart, p.StartDate)
		require.Equal(t, wantStart.AddDate(1, 0, 0), p.EndDate)

		require.Len(t, p.Notes, 1)
		require.Contains(t, p.Notes[0], "issued from quotation q1")
	})

	t.Run("explicit start date", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")

		p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID, StartDate: "2025-07-01"})
		require.NoError(t, err)
		require.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), p.StartDate)
	})

	t.Run("past start date rejected", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")

		_, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID, StartDate: "2025-06-14"})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("pending quotation cannot be issued", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")
		q.Status = QuotationStatusPending
		require.NoError(t, f.quotes.Update(ctx, q))

		_, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("expired quotation cannot be issued", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")

		f.now = f.now.AddDate(0, 0, QuotationValidityDays+1)
		_, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("second issuance conflicts", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")

		_, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.NoError(t, err)

		_, err = f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("concurrent issuance has a single winner", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")

		const attempts = 8
		var wg sync.WaitGroup
		errs := make([]error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				require.ErrorIs(t, err, ErrConflict)
			}
		}
		require.Equal(t, 1, winners)
	})
}

func TestPolicyService_LazyExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("get flips and persists past-end active policies", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")
		p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.NoError(t, err)

		f.now = f.now.AddDate(1, 0, 1)
		view, err := f.svc.Get(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, PolicyStatusExpired, view.Status)
		require.True(t, view.Expired)
		require.Equal(t, 0, view.DaysRemaining)
		require.Contains(t, view.Notes[len(view.Notes)-1], "coverage period ended")

		// The flip is persisted, not just annotated.
		stored, err := f.policies.Get(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, PolicyStatusExpired, stored.Status)
	})

	t.Run("list annotates without persisting", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")
		p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.NoError(t, err)

		f.now = f.now.AddDate(1, 0, 1)
		views, _, err := f.svc.List(ctx, PolicyFilter{}, 20, 0)
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.True(t, views[0].Expired)
		require.Equal(t, PolicyStatusActive, views[0].Status)

		stored, err := f.policies.Get(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, PolicyStatusActive, stored.Status)
	})

	t.Run("days remaining counts up to the end date", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")
		p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.NoError(t, err)

		view, err := f.svc.Get(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, 365, view.DaysRemaining)
		require.Equal(t, p.EndDate, view.EndDate)
	})
}

func TestPolicyService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	issue := func(t *testing.T, f *policyFixture) Policy {
		t.Helper()
		q := f.approvedQuotation(t, "q1")
		p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.NoError(t, err)
		return p
	}

	t.Run("suspend and reactivate", func(t *testing.T) {
		f := newPolicyFixture(t)
		p := issue(t, f)

		suspended, err := f.svc.UpdateStatus(ctx, p.ID, PolicyStatusInput{
			Status: PolicyStatusSuspended, Note: "missed payment",
		})
		require.NoError(t, err)
		require.Equal(t, PolicyStatusSuspended, suspended.Status)
		require.Contains(t, suspended.Notes[len(suspended.Notes)-1], "missed payment")

		active, err := f.svc.UpdateStatus(ctx, p.ID, PolicyStatusInput{Status: PolicyStatusActive})
		require.NoError(t, err)
		require.Equal(t, PolicyStatusActive, active.Status)
		require.Contains(t, active.Notes[len(active.Notes)-1], "status changed to active")
	})

	t.Run("notes are append-only", func(t *testing.T) {
		f := newPolicyFixture(t)
		p := issue(t, f)

		updated, err := f.svc.UpdateStatus(ctx, p.ID, PolicyStatusInput{Status: PolicyStatusSuspended})
		require.NoError(t, err)
		require.Len(t, updated.Notes, 2)
		require.Equal(t, p.Notes[0], updated.Notes[0])
	})

	t.Run("expired cannot be set manually", func(t *testing.T) {
		f := newPolicyFixture(t)
		p := issue(t, f)

		_, err := f.svc.UpdateStatus(ctx, p.ID, PolicyStatusInput{Status: PolicyStatusExpired})
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		f := newPolicyFixture(t)
		p := issue(t, f)

		_, err := f.svc.UpdateStatus(ctx, p.ID, PolicyStatusInput{Status: PolicyStatusCancelled})
		require.NoError(t, err)

		_, err = f.svc.UpdateStatus(ctx, p.ID, PolicyStatusInput{Status: PolicyStatusActive})
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("expired cannot be reactivated", func(t *testing.T) {
		f := newPolicyFixture(t)
		p := issue(t, f)

		f.now = f.now.AddDate(1, 0, 1)
		_, err := f.svc.UpdateStatus(ctx, p.ID, PolicyStatusInput{Status: PolicyStatusActive})
		require.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestPolicyService_Renew(t *testing.T) {
	ctx := context.Background()

	expiredPolicy := func(t *testing.T, f *policyFixture) Policy {
		t.Helper()
		q := f.approvedQuotation(t, "q1")
		p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.NoError(t, err)
		f.now = f.now.AddDate(1, 0, 1)
		return p
	}

	t.Run("renewal creates a linked successor", func(t *testing.T) {
		f := newPolicyFixture(t)
		prior := expiredPolicy(t, f)

		next, err := f.svc.Renew(ctx, prior.ID, RenewInput{})
		require.NoError(t, err)

		require.NotEqual(t, prior.ID, next.ID)
		require.NotEqual(t, prior.Number, next.Number)
		require.Equal(t, prior.QuotationID, next.QuotationID)
		require.Equal(t, prior.ID, next.RenewedFrom)
		require.Equal(t, PolicyStatusActive, next.Status)
		require.Contains(t, next.Notes[0], "renewed from policy "+prior.Number)

		// The prior policy stays expired for audit.
		stored, err := f.policies.Get(ctx, prior.ID)
		require.NoError(t, err)
		require.Equal(t, PolicyStatusExpired, stored.Status)
	})

	t.Run("active policy cannot be renewed", func(t *testing.T) {
		f := newPolicyFixture(t)
		q := f.approvedQuotation(t, "q1")
		p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
		require.NoError(t, err)

		_, err = f.svc.Renew(ctx, p.ID, RenewInput{})
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("each expired policy renews at most once", func(t *testing.T) {
		f := newPolicyFixture(t)
		prior := expiredPolicy(t, f)

		_, err := f.svc.Renew(ctx, prior.ID, RenewInput{})
		require.NoError(t, err)

		_, err = f.svc.Renew(ctx, prior.ID, RenewInput{})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("renewal chain continues through the successor", func(t *testing.T) {
		f := newPolicyFixture(t)
		prior := expiredPolicy(t, f)

		next, err := f.svc.Renew(ctx, prior.ID, RenewInput{})
		require.NoError(t, err)

		// Expire the successor too and renew again.
		f.now = f.now.AddDate(1, 0, 1)
		third, err := f.svc.Renew(ctx, next.ID, RenewInput{})
		require.NoError(t, err)
		require.Equal(t, next.ID, third.RenewedFrom)
		require.Equal(t, prior.QuotationID, third.QuotationID)
	})
}

func TestPolicyService_GetByNumber(t *testing.T) {
	ctx := context.Background()
	f := newPolicyFixture(t)
	q := f.approvedQuotation(t, "q1")
	p, err := f.svc.Issue(ctx, IssueInput{QuotationID: q.ID})
	require.NoError(t, err)

	view, err := f.svc.GetByNumber(ctx, p.Number)
	require.NoError(t, err)
	require.Equal(t, p.ID, view.ID)

	_, err = f.svc.GetByNumber(ctx, "POL-0-0000")
	require.ErrorIs(t, err, ErrNotFound)
}
