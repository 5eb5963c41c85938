package core

import (
	"context"
	"fmt"

	"github.com/MrKriegler/auto-insurance/internal/platform/ids"
)

type DriverService interface {
	Create(ctx context.Context, in DriverInput) (Driver, error)
	Get(ctx context.Context, id string) (Driver, error)
	List(ctx context.Context) ([]Driver, error)
	Update(ctx context.Context, id string, in DriverInput) (Driver, error)
	Delete(ctx context.Context, id string) error
}

type driverService struct {
	drivers DriverRepo
	quotes  QuotationRepo
}

func NewDriverService(drivers DriverRepo, quotes QuotationRepo) DriverService {
	return &driverService{drivers: drivers, quotes: quotes}
}

func (s *driverService) Create(ctx context.Context, in DriverInput) (Driver, error) {
	if err := in.Validate(); err != nil {
		return Driver{}, err
	}
	d := Driver{
		ID:           ids.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Age:          in.Age,
		LicenseClass: in.LicenseClass,
		Phone:        in.Phone,
		Accidents:    in.Accidents,
	}
	if err := s.drivers.Create(ctx, d); err != nil {
		return Driver{}, err
	}
	return d, nil
}

func (s *driverService) Get(ctx context.Context, id string) (Driver, error) {
	if id == "" {
		return Driver{}, fmt.Errorf("%w: missing driver ID", ErrValidation)
	}
	return s.drivers.Get(ctx, id)
}

func (s *driverService) List(ctx context.Context) ([]Driver, error) {
	return s.drivers.List(ctx)
}

func (s *driverService) Update(ctx context.Context, id string, in DriverInput) (Driver, error) {
	if err := in.Validate(); err != nil {
		return Driver{}, err
	}
	d, err := s.drivers.Get(ctx, id)
	if err != nil {
		return Driver{}, err
	}
	d.FirstName = in.FirstName
	d.LastName = in.LastName
	d.Age = in.Age
	d.LicenseClass = in.LicenseClass
	d.Phone = in.Phone
	d.Accidents = in.Accidents
	if err := s.drivers.Update(ctx, d); err != nil {
		return Driver{}, err
	}
	return d, nil
}

func (s *driverService) Delete(ctx context.Context, id string) error {
	if _, err := s.drivers.Get(ctx, id); err != nil {
		return err
	}
	referenced, err := s.quotes.ExistsForDriver(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: driver is referenced by a quotation", ErrConflict)
	}
	return s.drivers.Delete(ctx, id)
}
