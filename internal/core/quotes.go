package core

import (
	"context"
	"fmt"
	"time"
)

type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

const (
	// QuotationValidityDays is how long a quotation remains actionable.
	QuotationValidityDays = 30
)

// Quotation is a priced, time-boxed offer for one driver/vehicle/payment
// combination. It is computed once at creation and never re-priced.
type Quotation struct {
	ID              string          `json:"id"`
	DriverID        string          `json:"driver_id"`
	VehicleID       string          `json:"vehicle_id"`
	PaymentMethodID string          `json:"payment_method_id"`
	IssuedAt        time.Time       `json:"issued_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
	BaseCost        float64         `json:"base_cost"`
	Surcharges      []LineItem      `json:"surcharges"`
	Discounts       []LineItem      `json:"discounts"`
	SurchargeTotal  float64         `json:"surcharge_total"`
	DiscountTotal   float64         `json:"discount_total"`
	FinalCost       float64         `json:"final_cost"`
	Status          QuotationStatus `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	TermsAccepted   bool            `json:"terms_accepted"`

	// Version guards concurrent status transitions (optimistic lock).
	Version int64 `json:"-"`
}

// IsExpired reports whether the quotation can no longer progress.
func (q Quotation) IsExpired(now time.Time) bool {
	return q.ExpiresAt.Before(now)
}

// CanTransitionTo checks if a status transition is valid. Pending is never
// re-enterable; approved and rejected can override each other while the
// quotation is unexpired.
func (s QuotationStatus) CanTransitionTo(next QuotationStatus) bool {
	transitions := map[QuotationStatus][]QuotationStatus{
		QuotationStatusPending:  {QuotationStatusApproved, QuotationStatusRejected},
		QuotationStatusApproved: {QuotationStatusRejected},
		QuotationStatusRejected: {QuotationStatusApproved},
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// QuotationView is a quotation plus read-time annotations. Expired is
// informational; reading never mutates the stored status.
type QuotationView struct {
	Quotation
	Expired bool `json:"expired"`
}

type QuotationInput struct {
	DriverID        string `json:"driver_id"`
	VehicleID       string `json:"vehicle_id"`
	PaymentMethodID string `json:"payment_method_id"`
	TermsAccepted   bool   `json:"terms_accepted"`
}

func (in QuotationInput) Validate() error {
	if in.DriverID == "" || in.VehicleID == "" || in.PaymentMethodID == "" {
		return fmt.Errorf("%w: driver_id, vehicle_id and payment_method_id are required", ErrValidation)
	}
	if !in.TermsAccepted {
		return fmt.Errorf("%w: terms and conditions must be accepted", ErrValidation)
	}
	return nil
}

type QuotationStatusInput struct {
	Status QuotationStatus `json:"status"`
	Reason string          `json:"reason,omitempty"`
}

func (in QuotationStatusInput) Validate() error {
	if in.Status != QuotationStatusApproved && in.Status != QuotationStatusRejected {
		return fmt.Errorf("%w: status must be 'approved' or 'rejected'", ErrInvalidTransition)
	}
	if in.Status == QuotationStatusRejected && in.Reason == "" {
		return fmt.Errorf("%w: a reason is required when rejecting", ErrValidation)
	}
	return nil
}

type QuotationFilter struct {
	DriverID string
	Status   QuotationStatus
}

type QuotationRepo interface {
	Create(ctx context.Context, q Quotation) error
	Get(ctx context.Context, id string) (Quotation, error)
	List(ctx context.Context, filter QuotationFilter) ([]Quotation, error)

	// Update persists q only if the stored version still matches q.Version,
	// then bumps the version. A lost race surfaces as ErrConflict.
	Update(ctx context.Context, q Quotation) error

	Delete(ctx context.Context, id string) error

	ExistsForDriver(ctx context.Context, driverID string) (bool, error)
	ExistsForVehicle(ctx context.Context, vehicleID string) (bool, error)
	ExistsForPaymentMethod(ctx context.Context, paymentMethodID string) (bool, error)
}

var (
	ErrQuotationNotFound = fmt.Errorf("%w: quotation not found", ErrNotFound)
	ErrQuotationExpired  = fmt.Errorf("%w: quotation has expired", ErrExpired)
)
