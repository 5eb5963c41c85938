package core

import (
	"context"
	"fmt"

	"github.com/MrKriegler/auto-insurance/internal/platform/ids"
)

type PaymentMethodService interface {
	Create(ctx context.Context, in PaymentMethodInput) (PaymentMethod, error)
	Get(ctx context.Context, id string) (PaymentMethod, error)
	List(ctx context.Context) ([]PaymentMethod, error)
	Update(ctx context.Context, id string, in PaymentMethodInput) (PaymentMethod, error)
	Delete(ctx context.Context, id string) error
}

type paymentMethodService struct {
	payments PaymentMethodRepo
	quotes   QuotationRepo
}

func NewPaymentMethodService(payments PaymentMethodRepo, quotes QuotationRepo) PaymentMethodService {
	return &paymentMethodService{payments: payments, quotes: quotes}
}

func (s *paymentMethodService) Create(ctx context.Context, in PaymentMethodInput) (PaymentMethod, error) {
	if err := in.Validate(); err != nil {
		return PaymentMethod{}, err
	}
	pm := PaymentMethod{
		ID:        ids.New(),
		Type:      in.Type,
		Validated: in.Validated,
	}
	if err := s.payments.Create(ctx, pm); err != nil {
		return PaymentMethod{}, err
	}
	return pm, nil
}

func (s *paymentMethodService) Get(ctx context.Context, id string) (PaymentMethod, error) {
	if id == "" {
		return PaymentMethod{}, fmt.Errorf("%w: missing payment method ID", ErrValidation)
	}
	return s.payments.Get(ctx, id)
}

func (s *paymentMethodService) List(ctx context.Context) ([]PaymentMethod, error) {
	return s.payments.List(ctx)
}

func (s *paymentMethodService) Update(ctx context.Context, id string, in PaymentMethodInput) (PaymentMethod, error) {
	if err := in.Validate(); err != nil {
		return PaymentMethod{}, err
	}
	pm, err := s.payments.Get(ctx, id)
	if err != nil {
		return PaymentMethod{}, err
	}
	pm.Type = in.Type
	pm.Validated = in.Validated
	if err := s.payments.Update(ctx, pm); err != nil {
		return PaymentMethod{}, err
	}
	return pm, nil
}

func (s *paymentMethodService) Delete(ctx context.Context, id string) error {
	if _, err := s.payments.Get(ctx, id); err != nil {
		return err
	}
	referenced, err := s.quotes.ExistsForPaymentMethod(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: payment method is referenced by a quotation", ErrConflict)
	}
	return s.payments.Delete(ctx, id)
}
