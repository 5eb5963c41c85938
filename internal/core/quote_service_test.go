package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type quoteFixture struct {
	svc      *quotationService
	drivers  *memDriverRepo
	vehicles *memVehicleRepo
	payments *memPaymentRepo
	quotes   *memQuotationRepo
	policies *memPolicyRepo
	now      time.Time
}

func newQuoteFixture(t *testing.T) *quoteFixture {
	t.Helper()

	f := &quoteFixture{
		drivers:  newMemDriverRepo(),
		vehicles: newMemVehicleRepo(),
		payments: newMemPaymentRepo(),
		quotes:   newMemQuotationRepo(),
		policies: newMemPolicyRepo(),
		now:      time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewQuotationService(f.drivers, f.vehicles, f.payments, f.quotes, f.policies).(*quotationService)
	f.svc.clock = func() time.Time { return f.now }

	ctx := context.Background()
	require.NoError(t, f.drivers.Create(ctx, ratingDriver()))
	require.NoError(t, f.vehicles.Create(ctx, ratingVehicle()))
	require.NoError(t, f.payments.Create(ctx, ratingPayment()))
	return f
}

func validQuotationInput() QuotationInput {
	return QuotationInput{
		DriverID:        "d1",
		VehicleID:       "v1",
		PaymentMethodID: "pm1",
		TermsAccepted:   true,
	}
}

func TestQuotationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("prices and persists a pending quotation", func(t *testing.T) {
		f := newQuoteFixture(t)

		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		require.NotEmpty(t, q.ID)
		require.Equal(t, QuotationStatusPending, q.Status)
		require.Equal(t, f.now, q.IssuedAt)
		require.Equal(t, f.now.AddDate(0, 0, QuotationValidityDays), q.ExpiresAt)
		require.Equal(t, 100000.0, q.BaseCost)
		require.Equal(t, 90000.0, q.FinalCost)
		require.Equal(t, int64(1), q.Version)

		stored, err := f.quotes.Get(ctx, q.ID)
		require.NoError(t, err)
		require.Equal(t, q, stored)
	})

	t.Run("rejected risk is stored with joined reasons", func(t *testing.T) {
		f := newQuoteFixture(t)
		d := ratingDriver()
		d.Age = 17
		d.Accidents = 4
		require.NoError(t, f.drivers.Update(ctx, d))

		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		require.Equal(t, QuotationStatusRejected, q.Status)
		require.Equal(t, "driver under 18 | more than 3 recorded accidents", q.RejectionReason)
		// The breakdown is still priced.
		require.Equal(t, 100000.0, q.BaseCost)
	})

	t.Run("terms must be accepted", func(t *testing.T) {
		f := newQuoteFixture(t)
		in := validQuotationInput()
		in.TermsAccepted = false

		_, err := f.svc.Create(ctx, in)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unresolvable references map to validation errors", func(t *testing.T) {
		f := newQuoteFixture(t)
		for _, in := range []QuotationInput{
			{DriverID: "missing", VehicleID: "v1", PaymentMethodID: "pm1", TermsAccepted: true},
			{DriverID: "d1", VehicleID: "missing", PaymentMethodID: "pm1", TermsAccepted: true},
			{DriverID: "d1", VehicleID: "v1", PaymentMethodID: "missing", TermsAccepted: true},
		} {
			_, err := f.svc.Create(ctx, in)
			require.ErrorIs(t, err, ErrValidation)
			require.NotErrorIs(t, err, ErrNotFound)
		}
	})
}

func TestQuotationService_Get(t *testing.T) {
	ctx := context.Background()
	f := newQuoteFixture(t)

	q, err := f.svc.Create(ctx, validQuotationInput())
	require.NoError(t, err)

	t.Run("fresh quotation is not expired", func(t *testing.T) {
		view, err := f.svc.Get(ctx, q.ID)
		require.NoError(t, err)
		require.False(t, view.Expired)
	})

	t.Run("expiry is annotated without mutating status", func(t *testing.T) {
		f.now = f.now.AddDate(0, 0, QuotationValidityDays+1)
		view, err := f.svc.Get(ctx, q.ID)
		require.NoError(t, err)
		require.True(t, view.Expired)
		require.Equal(t, QuotationStatusPending, view.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.Get(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestQuotationService_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to approved", func(t *testing.T) {
		f := newQuoteFixture(t)
		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		updated, err := f.svc.SetStatus(ctx, q.ID, QuotationStatusInput{Status: QuotationStatusApproved})
		require.NoError(t, err)
		require.Equal(t, QuotationStatusApproved, updated.Status)
		require.Equal(t, int64(2), updated.Version)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		f := newQuoteFixture(t)
		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		_, err = f.svc.SetStatus(ctx, q.ID, QuotationStatusInput{Status: QuotationStatusRejected})
		require.ErrorIs(t, err, ErrValidation)

		updated, err := f.svc.SetStatus(ctx, q.ID, QuotationStatusInput{
			Status: QuotationStatusRejected,
			Reason: "manual review failed",
		})
		require.NoError(t, err)
		require.Equal(t, "manual review failed", updated.RejectionReason)
	})

	t.Run("approving a rejection clears the reason", func(t *testing.T) {
		f := newQuoteFixture(t)
		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		_, err = f.svc.SetStatus(ctx, q.ID, QuotationStatusInput{
			Status: QuotationStatusRejected, Reason: "first pass",
		})
		require.NoError(t, err)

		updated, err := f.svc.SetStatus(ctx, q.ID, QuotationStatusInput{Status: QuotationStatusApproved})
		require.NoError(t, err)
		require.Equal(t, QuotationStatusApproved, updated.Status)
		require.Empty(t, updated.RejectionReason)
	})

	t.Run("pending is never re-enterable", func(t *testing.T) {
		f := newQuoteFixture(t)
		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		_, err = f.svc.SetStatus(ctx, q.ID, QuotationStatusInput{Status: QuotationStatusPending})
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("expired quotations cannot transition", func(t *testing.T) {
		f := newQuoteFixture(t)
		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		f.now = f.now.AddDate(0, 0, QuotationValidityDays+1)
		_, err = f.svc.SetStatus(ctx, q.ID, QuotationStatusInput{Status: QuotationStatusApproved})
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("lost optimistic race surfaces as conflict", func(t *testing.T) {
		f := newQuoteFixture(t)
		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		// Another writer bumps the stored version out from under us.
		stale := q
		stale.Status = QuotationStatusApproved
		require.NoError(t, f.quotes.Update(ctx, stale))

		stale.Version = q.Version // pretend we still hold the old copy
		err = f.quotes.Update(ctx, stale)
		require.ErrorIs(t, err, ErrConflict)
	})
}

func TestQuotationService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an uncovered quotation", func(t *testing.T) {
		f := newQuoteFixture(t)
		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, q.ID))
		_, err = f.svc.Get(ctx, q.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("refuses once a policy covers it", func(t *testing.T) {
		f := newQuoteFixture(t)
		q, err := f.svc.Create(ctx, validQuotationInput())
		require.NoError(t, err)

		require.NoError(t, f.policies.Create(ctx, Policy{
			ID:          "p1",
			Number:      "POL-1-0001",
			QuotationID: q.ID,
			Status:      PolicyStatusActive,
		}))

		err = f.svc.Delete(ctx, q.ID)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newQuoteFixture(t)
		require.ErrorIs(t, f.svc.Delete(ctx, "missing"), ErrNotFound)
	})
}

func TestQuotationService_ListAnnotatesExpiry(t *testing.T) {
	ctx := context.Background()
	f := newQuoteFixture(t)

	q, err := f.svc.Create(ctx, validQuotationInput())
	require.NoError(t, err)

	f.now = f.now.AddDate(0, 0, QuotationValidityDays+1)
	views, err := f.svc.List(ctx, QuotationFilter{DriverID: "d1"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, q.ID, views[0].ID)
	require.True(t, views[0].Expired)
	require.Equal(t, QuotationStatusPending, views[0].Status)
}
