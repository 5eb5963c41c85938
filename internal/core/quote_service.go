package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrKriegler/auto-insurance/internal/platform/ids"
)

type QuotationService interface {
	// Create resolves the referenced entities, runs the underwriting
	// calculator once and persists its verdict.
	Create(ctx context.Context, in QuotationInput) (Quotation, error)

	// Get retrieves a quotation with its read-time expiry annotation.
	Get(ctx context.Context, id string) (QuotationView, error)

	// List returns quotations matching the filter.
	List(ctx context.Context, filter QuotationFilter) ([]QuotationView, error)

	// SetStatus applies an operator decision (approve/reject override).
	SetStatus(ctx context.Context, id string, in QuotationStatusInput) (Quotation, error)

	// Delete removes a quotation that no policy references.
	Delete(ctx context.Context, id string) error
}

type quotationService struct {
	drivers  DriverRepo
	vehicles VehicleRepo
	payments PaymentMethodRepo
	quotes   QuotationRepo
	policies PolicyRepo
	clock    func() time.Time
}

func NewQuotationService(drivers DriverRepo, vehicles VehicleRepo, payments PaymentMethodRepo,
	quotes QuotationRepo, policies PolicyRepo) QuotationService {
	return &quotationService{
		drivers:  drivers,
		vehicles: vehicles,
		payments: payments,
		quotes:   quotes,
		policies: policies,
		clock:    time.Now,
	}
}

func (s *quotationService) Create(ctx context.Context, in QuotationInput) (Quotation, error) {
	if err := in.Validate(); err != nil {
		return Quotation{}, err
	}

	// A missing reference on create is a caller mistake, not a 404.
	driver, err := s.drivers.Get(ctx, in.DriverID)
	if err != nil {
		return Quotation{}, asValidation(err, "driver %q cannot be resolved", in.DriverID)
	}
	vehicle, err := s.vehicles.Get(ctx, in.VehicleID)
	if err != nil {
		return Quotation{}, asValidation(err, "vehicle %q cannot be resolved", in.VehicleID)
	}
	payment, err := s.payments.Get(ctx, in.PaymentMethodID)
	if err != nil {
		return Quotation{}, asValidation(err, "payment method %q cannot be resolved", in.PaymentMethodID)
	}

	now := s.clock()
	ev, err := EvaluateRisk(driver, vehicle, payment, now)
	if err != nil {
		return Quotation{}, err
	}

	q := Quotation{
		ID:              ids.New(),
		DriverID:        driver.ID,
		VehicleID:       vehicle.ID,
		PaymentMethodID: payment.ID,
		IssuedAt:        now,
		ExpiresAt:       now.AddDate(0, 0, QuotationValidityDays),
		BaseCost:        ev.BaseCost,
		Surcharges:      ev.Surcharges,
		Discounts:       ev.Discounts,
		SurchargeTotal:  ev.SurchargeTotal,
		DiscountTotal:   ev.DiscountTotal,
		FinalCost:       ev.FinalCost,
		Status:          QuotationStatusPending,
		TermsAccepted:   in.TermsAccepted,
		Version:         1,
	}
	if ev.Rejected {
		q.Status = QuotationStatusRejected
		q.RejectionReason = strings.Join(ev.Reasons, " | ")
	}

	if err := s.quotes.Create(ctx, q); err != nil {
		return Quotation{}, err
	}
	return q, nil
}

func (s *quotationService) Get(ctx context.Context, id string) (QuotationView, error) {
	if id == "" {
		return QuotationView{}, fmt.Errorf("%w: missing quotation ID", ErrValidation)
	}
	q, err := s.quotes.Get(ctx, id)
	if err != nil {
		return QuotationView{}, err
	}
	return QuotationView{Quotation: q, Expired: q.IsExpired(s.clock())}, nil
}

func (s *quotationService) List(ctx context.Context, filter QuotationFilter) ([]QuotationView, error) {
	qs, err := s.quotes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	views := make([]QuotationView, 0, len(qs))
	for _, q := range qs {
		views = append(views, QuotationView{Quotation: q, Expired: q.IsExpired(now)})
	}
	return views, nil
}

func (s *quotationService) SetStatus(ctx context.Context, id string, in QuotationStatusInput) (Quotation, error) {
	if id == "" {
		return Quotation{}, fmt.Errorf("%w: missing quotation ID", ErrValidation)
	}
	if err := in.Validate(); err != nil {
		return Quotation{}, err
	}

	q, err := s.quotes.Get(ctx, id)
	if err != nil {
		return Quotation{}, err
	}
	if q.IsExpired(s.clock()) {
		return Quotation{}, ErrQuotationExpired
	}
	if !q.Status.CanTransitionTo(in.Status) {
		return Quotation{}, fmt.Errorf("%w: cannot transition from %s to %s",
			ErrInvalidTransition, q.Status, in.Status)
	}

	q.Status = in.Status
	if in.Status == QuotationStatusRejected {
		q.RejectionReason = in.Reason
	} else {
		q.RejectionReason = ""
	}

	if err := s.quotes.Update(ctx, q); err != nil {
		return Quotation{}, err
	}
	q.Version++
	return q, nil
}

func (s *quotationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing quotation ID", ErrValidation)
	}
	if _, err := s.quotes.Get(ctx, id); err != nil {
		return err
	}

	_, err := s.policies.GetByQuotationID(ctx, id)
	if err == nil {
		return fmt.Errorf("%w: a policy references this quotation", ErrConflict)
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	return s.quotes.Delete(ctx, id)
}

func asValidation(err error, format string, args ...any) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
	}
	return err
}
