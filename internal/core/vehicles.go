package core

import (
	"context"
	"fmt"
	"time"
)

type BodyType string

const (
	BodyTypeSedan     BodyType = "sedan"
	BodyTypeSUV       BodyType = "suv"
	BodyTypePickup    BodyType = "pickup"
	BodyTypeCompact   BodyType = "compact"
	BodyTypeSports    BodyType = "sports"
	BodyTypeHatchback BodyType = "hatchback"
	BodyTypeVan       BodyType = "van"
)

type VehicleUsage string

const (
	UsagePersonal   VehicleUsage = "personal"
	UsagePrivate    VehicleUsage = "private"
	UsageCommercial VehicleUsage = "commercial"
)

type Vehicle struct {
	ID       string       `json:"id"`
	Model    string       `json:"model"`
	Year     int          `json:"year"`
	Color    string       `json:"color"`
	BodyType BodyType     `json:"body_type"`
	Usage    VehicleUsage `json:"usage"`
	Price    float64      `json:"price"`
}

// AgeAt returns the vehicle age in whole years relative to now.
func (v Vehicle) AgeAt(now time.Time) int {
	return now.Year() - v.Year
}

type VehicleInput struct {
	Model    string       `json:"model"`
	Year     int          `json:"year"`
	Color    string       `json:"color"`
	BodyType BodyType     `json:"body_type"`
	Usage    VehicleUsage `json:"usage"`
	Price    float64      `json:"price"`
}

type VehicleRepo interface {
	Create(ctx context.Context, v Vehicle) error
	Get(ctx context.Context, id string) (Vehicle, error)
	List(ctx context.Context) ([]Vehicle, error)
	Update(ctx context.Context, v Vehicle) error
	Delete(ctx context.Context, id string) error
}

func (in VehicleInput) Validate(now time.Time) error {
	if len(in.Model) < 2 || len(in.Model) > 32 {
		return fmt.Errorf("%w: model must be between 2 and 32 characters", ErrValidation)
	}
	if in.Year < 1900 {
		return fmt.Errorf("%w: year must be 1900 or later", ErrValidation)
	}
	if in.Year > now.Year() {
		return fmt.Errorf("%w: year cannot be in the future", ErrValidation)
	}
	switch in.BodyType {
	case BodyTypeSedan, BodyTypeSUV, BodyTypePickup, BodyTypeCompact,
		BodyTypeSports, BodyTypeHatchback, BodyTypeVan:
	default:
		return fmt.Errorf("%w: unknown body type %q", ErrValidation, in.BodyType)
	}
	switch in.Usage {
	case UsagePersonal, UsagePrivate, UsageCommercial:
	default:
		return fmt.Errorf("%w: unknown usage %q", ErrValidation, in.Usage)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return nil
}

var ErrVehicleNotFound = fmt.Errorf("%w: vehicle not found", ErrNotFound)
