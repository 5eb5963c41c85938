package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/MrKriegler/auto-insurance/internal/platform/ids"
)

const dateLayout = "2006-01-02"

type PolicyService interface {
	// Issue creates the one policy allowed for an approved, unexpired
	// quotation.
	Issue(ctx context.Context, in IssueInput) (Policy, error)

	// Get retrieves a policy, applying the lazy active-to-expired flip.
	Get(ctx context.Context, id string) (PolicyView, error)

	GetByNumber(ctx context.Context, number string) (PolicyView, error)

	// List returns policies with derived read-time fields and pagination.
	List(ctx context.Context, filter PolicyFilter, limit, offset int) ([]PolicyView, int64, error)

	// UpdateStatus applies a manual transition (cancel, suspend, reactivate).
	UpdateStatus(ctx context.Context, id string, in PolicyStatusInput) (Policy, error)

	// Renew creates a successor policy for an expired one, preserving
	// lineage to the same quotation.
	Renew(ctx context.Context, id string, in RenewInput) (Policy, error)
}

type policyService struct {
	policies PolicyRepo
	quotes   QuotationRepo
	clock    func() time.Time
}

func NewPolicyService(policies PolicyRepo, quotes QuotationRepo) PolicyService {
	return &policyService{
		policies: policies,
		quotes:   quotes,
		clock:    time.Now,
	}
}

func (s *policyService) Issue(ctx context.Context, in IssueInput) (Policy, error) {
	if in.QuotationID == "" {
		return Policy{}, fmt.Errorf("%w: missing quotation ID", ErrValidation)
	}

	q, err := s.quotes.Get(ctx, in.QuotationID)
	if err != nil {
		return Policy{}, err
	}

	now := s.clock()
	if q.Status != QuotationStatusApproved {
		return Policy{}, fmt.Errorf("%w: quotation is %s, only approved quotations can be issued",
			ErrInvalidState, q.Status)
	}
	if q.IsExpired(now) {
		return Policy{}, ErrQuotationExpired
	}

	// Fast-path check; the store-level uniqueness constraint is what
	// actually decides concurrent races.
	if _, err := s.policies.GetByQuotationID(ctx, q.ID); err == nil {
		return Policy{}, ErrPolicyExists
	} else if !errors.Is(err, ErrNotFound) {
		return Policy{}, err
	}

	start, err := resolveStartDate(in.StartDate, now)
	if err != nil {
		return Policy{}, err
	}

	p := Policy{
		ID:          ids.New(),
		Number:      NewPolicyNumber(now),
		QuotationID: q.ID,
		StartDate:   start,
		EndDate:     start.AddDate(PolicyTermYears, 0, 0),
		Status:      PolicyStatusActive,
		IssuedAt:    now,
		Version:     1,
	}
	p.AppendNote(now, fmt.Sprintf("issued from quotation %s", q.ID))

	if err := s.policies.Create(ctx, p); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (s *policyService) Get(ctx context.Context, id string) (PolicyView, error) {
	if id == "" {
		return PolicyView{}, fmt.Errorf("%w: missing policy ID", ErrValidation)
	}
	p, err := s.policies.Get(ctx, id)
	if err != nil {
		return PolicyView{}, err
	}
	p, err = s.refreshExpiry(ctx, p)
	if err != nil {
		return PolicyView{}, err
	}
	return s.view(p), nil
}

func (s *policyService) GetByNumber(ctx context.Context, number string) (PolicyView, error) {
	if number == "" {
		return PolicyView{}, fmt.Errorf("%w: missing policy number", ErrValidation)
	}
	p, err := s.policies.GetByNumber(ctx, number)
	if err != nil {
		return PolicyView{}, err
	}
	p, err = s.refreshExpiry(ctx, p)
	if err != nil {
		return PolicyView{}, err
	}
	return s.view(p), nil
}

func (s *policyService) List(ctx context.Context, filter PolicyFilter, limit, offset int) ([]PolicyView, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	policies, total, err := s.policies.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	// List stays read-only: the derived fields are annotated but the
	// active-to-expired flip is only persisted on Get/UpdateStatus/Renew.
	views := make([]PolicyView, 0, len(policies))
	for _, p := range policies {
		views = append(views, s.view(p))
	}
	return views, total, nil
}

func (s *policyService) UpdateStatus(ctx context.Context, id string, in PolicyStatusInput) (Policy, error) {
	if id == "" {
		return Policy{}, fmt.Errorf("%w: missing policy ID", ErrValidation)
	}
	switch in.Status {
	case PolicyStatusActive, PolicyStatusCancelled, PolicyStatusSuspended:
	case PolicyStatusExpired:
		return Policy{}, fmt.Errorf("%w: expired is derived from the coverage dates, not set manually",
			ErrInvalidTransition)
	default:
		return Policy{}, fmt.Errorf("%w: unknown policy status %q", ErrInvalidTransition, in.Status)
	}

	p, err := s.policies.Get(ctx, id)
	if err != nil {
		return Policy{}, err
	}
	p, err = s.refreshExpiry(ctx, p)
	if err != nil {
		return Policy{}, err
	}

	if p.Status == PolicyStatusCancelled {
		return Policy{}, fmt.Errorf("%w: cancelled policies cannot be modified", ErrInvalidState)
	}
	if p.Status == PolicyStatusExpired && in.Status == PolicyStatusActive {
		return Policy{}, fmt.Errorf("%w: expired policies cannot be reactivated, only renewed",
			ErrInvalidTransition)
	}

	now := s.clock()
	p.Status = in.Status
	if in.Note != "" {
		p.AppendNote(now, in.Note)
	} else {
		p.AppendNote(now, fmt.Sprintf("status changed to %s", in.Status))
	}

	if err := s.policies.Update(ctx, p); err != nil {
		return Policy{}, err
	}
	p.Version++
	return p, nil
}

func (s *policyService) Renew(ctx context.Context, id string, in RenewInput) (Policy, error) {
	if id == "" {
		return Policy{}, fmt.Errorf("%w: missing policy ID", ErrValidation)
	}

	prior, err := s.policies.Get(ctx, id)
	if err != nil {
		return Policy{}, err
	}
	prior, err = s.refreshExpiry(ctx, prior)
	if err != nil {
		return Policy{}, err
	}
	if prior.Status != PolicyStatusExpired {
		return Policy{}, fmt.Errorf("%w: only expired policies can be renewed (current status: %s)",
			ErrInvalidState, prior.Status)
	}

	now := s.clock()
	start, err := resolveStartDate(in.StartDate, now)
	if err != nil {
		return Policy{}, err
	}

	// The prior policy is left untouched for audit; lineage lives on the
	// successor. The (quotation_id, renewed_from) uniqueness means each
	// expired policy is renewed at most once.
	next := Policy{
		ID:          ids.New(),
		Number:      NewPolicyNumber(now),
		QuotationID: prior.QuotationID,
		RenewedFrom: prior.ID,
		StartDate:   start,
		EndDate:     start.AddDate(PolicyTermYears, 0, 0),
		Status:      PolicyStatusActive,
		IssuedAt:    now,
		Version:     1,
	}
	next.AppendNote(now, fmt.Sprintf("renewed from policy %s", prior.Number))

	if err := s.policies.Create(ctx, next); err != nil {
		return Policy{}, err
	}
	return next, nil
}

// refreshExpiry applies the lazy Active -> Expired transition. A lost
// optimistic-lock race means another request already flipped it, so the
// fresh copy is authoritative.
func (s *policyService) refreshExpiry(ctx context.Context, p Policy) (Policy, error) {
	now := s.clock()
	if p.Status != PolicyStatusActive || !p.IsPastEnd(now) {
		return p, nil
	}

	p.Status = PolicyStatusExpired
	p.AppendNote(now, "coverage period ended")
	if err := s.policies.Update(ctx, p); err != nil {
		if errors.Is(err, ErrConflict) {
			return s.policies.Get(ctx, p.ID)
		}
		return Policy{}, err
	}
	p.Version++
	return p, nil
}

func (s *policyService) view(p Policy) PolicyView {
	now := s.clock()
	remaining := 0
	if d := p.EndDate.Sub(now); d > 0 {
		remaining = int(math.Ceil(d.Hours() / 24))
	}
	return PolicyView{
		Policy:        p,
		Expired:       p.IsPastEnd(now),
		DaysRemaining: remaining,
	}
}

func resolveStartDate(raw string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw == "" {
		return today, nil
	}
	start, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrValidation)
	}
	if start.Before(today) {
		return time.Time{}, fmt.Errorf("%w: start date cannot be in the past", ErrValidation)
	}
	return start, nil
}
