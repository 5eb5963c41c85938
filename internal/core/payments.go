package core

import (
	"context"
	"fmt"
	"strings"
)

// PaymentMethod carries a free-text type ("annual credit card",
// "monthly installments", ...). Rating matches it by keyword,
// case-insensitively.
type PaymentMethod struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Validated bool   `json:"validated"`
}

// TypeContains reports whether the payment type contains the keyword,
// ignoring case and surrounding whitespace.
func (pm PaymentMethod) TypeContains(keyword string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(pm.Type)), keyword)
}

type PaymentMethodInput struct {
	Type      string `json:"type"`
	Validated bool   `json:"validated"`
}

type PaymentMethodRepo interface {
	Create(ctx context.Context, pm PaymentMethod) error
	Get(ctx context.Context, id string) (PaymentMethod, error)
	List(ctx context.Context) ([]PaymentMethod, error)
	Update(ctx context.Context, pm PaymentMethod) error
	Delete(ctx context.Context, id string) error
}

func (in PaymentMethodInput) Validate() error {
	if strings.TrimSpace(in.Type) == "" {
		return fmt.Errorf("%w: payment type is required", ErrValidation)
	}
	return nil
}

var ErrPaymentMethodNotFound = fmt.Errorf("%w: payment method not found", ErrNotFound)
