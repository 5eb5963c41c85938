package core

import (
	"context"
	"fmt"
	"time"

	"github.com/MrKriegler/auto-insurance/internal/platform/ids"
)

type VehicleService interface {
	Create(ctx context.Context, in VehicleInput) (Vehicle, error)
	Get(ctx context.Context, id string) (Vehicle, error)
	List(ctx context.Context) ([]Vehicle, error)
	Update(ctx context.Context, id string, in VehicleInput) (Vehicle, error)
	Delete(ctx context.Context, id string) error
}

type vehicleService struct {
	vehicles VehicleRepo
	quotes   QuotationRepo
	clock    func() time.Time
}

func NewVehicleService(vehicles VehicleRepo, quotes QuotationRepo) VehicleService {
	return &vehicleService{vehicles: vehicles, quotes: quotes, clock: time.Now}
}

func (s *vehicleService) Create(ctx context.Context, in VehicleInput) (Vehicle, error) {
	if err := in.Validate(s.clock()); err != nil {
		return Vehicle{}, err
	}
	v := Vehicle{
		ID:       ids.New(),
		Model:    in.Model,
		Year:     in.Year,
		Color:    in.Color,
		BodyType: in.BodyType,
		Usage:    in.Usage,
		Price:    in.Price,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (s *vehicleService) Get(ctx context.Context, id string) (Vehicle, error) {
	if id == "" {
		return Vehicle{}, fmt.Errorf("%w: missing vehicle ID", ErrValidation)
	}
	return s.vehicles.Get(ctx, id)
}

func (s *vehicleService) List(ctx context.Context) ([]Vehicle, error) {
	return s.vehicles.List(ctx)
}

func (s *vehicleService) Update(ctx context.Context, id string, in VehicleInput) (Vehicle, error) {
	if err := in.Validate(s.clock()); err != nil {
		return Vehicle{}, err
	}
	v, err := s.vehicles.Get(ctx, id)
	if err != nil {
		return Vehicle{}, err
	}
	v.Model = in.Model
	v.Year = in.Year
	v.Color = in.Color
	v.BodyType = in.BodyType
	v.Usage = in.Usage
	v.Price = in.Price
	if err := s.vehicles.Update(ctx, v); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (s *vehicleService) Delete(ctx context.Context, id string) error {
	if _, err := s.vehicles.Get(ctx, id); err != nil {
		return err
	}
	referenced, err := s.quotes.ExistsForVehicle(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: vehicle is referenced by a quotation", ErrConflict)
	}
	return s.vehicles.Delete(ctx, id)
}
