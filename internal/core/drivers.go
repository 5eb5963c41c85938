package core

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

type LicenseClass string

const (
	LicenseClassA LicenseClass = "A"
	LicenseClassB LicenseClass = "B"
	LicenseClassC LicenseClass = "C"
	LicenseClassD LicenseClass = "D"
	LicenseClassE LicenseClass = "E"
)

// Driver is a rating input for underwriting. Age and accident history drive
// the hard-reject and surcharge rules.
type Driver struct {
	ID           string       `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Age          int          `json:"age"`
	LicenseClass LicenseClass `json:"license_class"`
	Phone        string       `json:"phone"`
	Accidents    int          `json:"accidents"` // lifetime recorded accidents
}

type DriverInput struct {
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Age          int          `json:"age"`
	LicenseClass LicenseClass `json:"license_class"`
	Phone        string       `json:"phone"`
	Accidents    int          `json:"accidents"`
}

type DriverRepo interface {
	Create(ctx context.Context, d Driver) error
	Get(ctx context.Context, id string) (Driver, error)
	List(ctx context.Context) ([]Driver, error)
	Update(ctx context.Context, d Driver) error
	Delete(ctx context.Context, id string) error
}

func (in DriverInput) Validate() error {
	if err := validateName(in.FirstName, "first_name"); err != nil {
		return err
	}
	if err := validateName(in.LastName, "last_name"); err != nil {
		return err
	}
	if in.Age < 0 || in.Age > 120 {
		return fmt.Errorf("%w: age must be between 0 and 120", ErrValidation)
	}
	switch in.LicenseClass {
	case LicenseClassA, LicenseClassB, LicenseClassC, LicenseClassD, LicenseClassE:
	default:
		return fmt.Errorf("%w: license class must be one of A-E", ErrValidation)
	}
	if len(in.Phone) != 10 || !isDigits(in.Phone) {
		return fmt.Errorf("%w: phone must be 10 digits", ErrValidation)
	}
	if in.Accidents < 0 {
		return fmt.Errorf("%w: accidents cannot be negative", ErrValidation)
	}
	return nil
}

func validateName(s, field string) error {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 32 {
		return fmt.Errorf("%w: %s must be between 2 and 32 characters", ErrValidation, field)
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

var ErrDriverNotFound = fmt.Errorf("%w: driver not found", ErrNotFound)
