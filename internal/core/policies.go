package core

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusExpired   PolicyStatus = "expired"
	PolicyStatusCancelled PolicyStatus = "cancelled"
	PolicyStatusSuspended PolicyStatus = "suspended"
)

const (
	// PolicyTermYears is the default coverage term.
	PolicyTermYears = 1

	policyNumberPrefix = "POL"
)

// Policy is an issued, dated coverage contract created from an approved
// quotation. RenewedFrom links a renewal to the policy it supersedes; it is
// empty on first issuance. The (QuotationID, RenewedFrom) pair is unique at
// the store, which makes first issuance and each renewal single-winner even
// under concurrent attempts.
type Policy struct {
	ID          string       `json:"id"`
	Number      string       `json:"number"`
	QuotationID string       `json:"quotation_id"`
	RenewedFrom string       `json:"renewed_from,omitempty"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	Status      PolicyStatus `json:"status"`
	Notes       []string     `json:"notes"` // append-only, timestamped
	IssuedAt    time.Time    `json:"issued_at"`

	Version int64 `json:"-"`
}

// IsPastEnd reports whether coverage has lapsed by the calendar.
func (p Policy) IsPastEnd(now time.Time) bool {
	return p.EndDate.Before(now)
}

// AppendNote adds a timestamped annotation without overwriting the log.
func (p *Policy) AppendNote(now time.Time, note string) {
	p.Notes = append(p.Notes, fmt.Sprintf("%s %s", now.UTC().Format(time.RFC3339), note))
}

// NewPolicyNumber generates a number with a fixed prefix, the creation
// timestamp and a random disambiguator. Uniqueness is still enforced at the
// store, never assumed from this format.
func NewPolicyNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d-%04d", policyNumberPrefix, now.UnixMilli(), rand.Intn(10000))
}

// PolicyView adds the derived read-time fields. They are computed on read
// and never stored.
type PolicyView struct {
	Policy
	Expired       bool `json:"expired"`
	DaysRemaining int  `json:"days_remaining"`
}

type IssueInput struct {
	QuotationID string `json:"quotation_id"`
	StartDate   string `json:"start_date,omitempty"` // YYYY-MM-DD, defaults to today
}

type PolicyStatusInput struct {
	Status PolicyStatus `json:"status"`
	Note   string       `json:"note,omitempty"`
}

type RenewInput struct {
	StartDate string `json:"new_start_date,omitempty"` // YYYY-MM-DD, defaults to today
}

type PolicyFilter struct {
	QuotationID string
	Status      PolicyStatus
}

type PolicyRepo interface {
	// Create inserts a policy. The store rejects a duplicate
	// (quotation_id, renewed_from) pair or policy number with ErrPolicyExists.
	Create(ctx context.Context, p Policy) error

	Get(ctx context.Context, id string) (Policy, error)
	GetByNumber(ctx context.Context, number string) (Policy, error)

	// GetByQuotationID returns the first-issuance policy (renewed_from empty)
	// for the quotation.
	GetByQuotationID(ctx context.Context, quotationID string) (Policy, error)

	List(ctx context.Context, filter PolicyFilter, limit, offset int) ([]Policy, int64, error)

	// Update persists p only if the stored version still matches p.Version.
	Update(ctx context.Context, p Policy) error
}

var (
	ErrPolicyNotFound = fmt.Errorf("%w: policy not found", ErrNotFound)
	ErrPolicyExists   = fmt.Errorf("%w: a policy already exists for this quotation", ErrConflict)
)
