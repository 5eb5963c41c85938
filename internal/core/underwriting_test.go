package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var ratingNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func ratingDriver() Driver {
	return Driver{
		ID:           "d1",
		FirstName:    "Laura",
		LastName:     "Mendoza",
		Age:          35,
		LicenseClass: LicenseClassB,
		Phone:        "5512345678",
		Accidents:    0,
	}
}

func ratingVehicle() Vehicle {
	return Vehicle{
		ID:       "v1",
		Model:    "Honda Civic",
		Year:     2021,
		Color:    "blue",
		BodyType: BodyTypeSedan,
		Usage:    UsagePersonal,
		Price:    100000,
	}
}

func ratingPayment() PaymentMethod {
	return PaymentMethod{ID: "pm1", Type: "debit card", Validated: true}
}

func TestEvaluateRisk_BaselineDriver(t *testing.T) {
	ev, err := EvaluateRisk(ratingDriver(), ratingVehicle(), ratingPayment(), ratingNow)
	require.NoError(t, err)

	require.False(t, ev.Rejected)
	require.Empty(t, ev.Surcharges)
	require.Len(t, ev.Discounts, 1)
	require.Equal(t, "no accident history", ev.Discounts[0].Label)
	require.Equal(t, 10000.0, ev.DiscountTotal)
	require.Equal(t, 90000.0, ev.FinalCost)
}

func TestEvaluateRisk_InvalidPrice(t *testing.T) {
	for _, price := range []float64{0, -1} {
		v := ratingVehicle()
		v.Price = price
		_, err := EvaluateRisk(ratingDriver(), v, ratingPayment(), ratingNow)
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestEvaluateRisk_DriverAgeBands(t *testing.T) {
	cases := []struct {
		name         string
		age          int
		rejected     bool
		reason       string
		surchargeLbl string
	}{
		{name: "17 rejected", age: 17, rejected: true, reason: "driver under 18"},
		{name: "18 young surcharge", age: 18, surchargeLbl: "young driver"},
		{name: "24 young surcharge", age: 24, surchargeLbl: "young driver"},
		{name: "25 no age surcharge", age: 25},
		{name: "65 no age surcharge", age: 65},
		{name: "66 senior surcharge", age: 66, surchargeLbl: "senior driver"},
		{name: "75 senior surcharge", age: 75, surchargeLbl: "senior driver"},
		{name: "76 rejected", age: 76, rejected: true, reason: "driver over 75"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := ratingDriver()
			d.Age = tc.age
			ev, err := EvaluateRisk(d, ratingVehicle(), ratingPayment(), ratingNow)
			require.NoError(t, err)

			require.Equal(t, tc.rejected, ev.Rejected)
			if tc.reason != "" {
				require.Contains(t, ev.Reasons, tc.reason)
			}
			if tc.surchargeLbl != "" {
				require.Len(t, ev.Surcharges, 1)
				require.Equal(t, tc.surchargeLbl, ev.Surcharges[0].Label)
			} else if !tc.rejected {
				require.Empty(t, ev.Surcharges)
			}
		})
	}
}

func TestEvaluateRisk_AccidentBands(t *testing.T) {
	t.Run("zero accidents gets discount", func(t *testing.T) {
		ev, err := EvaluateRisk(ratingDriver(), ratingVehicle(), ratingPayment(), ratingNow)
		require.NoError(t, err)
		require.Len(t, ev.Discounts, 1)
		require.Equal(t, 10000.0, ev.Discounts[0].Amount)
	})

	t.Run("one to three accidents stack the surcharge", func(t *testing.T) {
		for accidents, want := range map[int]float64{1: 5000, 2: 10000, 3: 15000} {
			d := ratingDriver()
			d.Accidents = accidents
			ev, err := EvaluateRisk(d, ratingVehicle(), ratingPayment(), ratingNow)
			require.NoError(t, err)

			require.False(t, ev.Rejected)
			// Discount band must not apply at the same time.
			require.Empty(t, ev.Discounts)
			require.Equal(t, want, ev.SurchargeTotal)
		}
	})

	t.Run("four accidents rejected", func(t *testing.T) {
		d := ratingDriver()
		d.Accidents = 4
		ev, err := EvaluateRisk(d, ratingVehicle(), ratingPayment(), ratingNow)
		require.NoError(t, err)
		require.True(t, ev.Rejected)
		require.Contains(t, ev.Reasons, "more than 3 recorded accidents")
	})
}

func TestEvaluateRisk_VehicleRules(t *testing.T) {
	t.Run("exactly 20 years old is insurable", func(t *testing.T) {
		v := ratingVehicle()
		v.Year = ratingNow.Year() - 20
		ev, err := EvaluateRisk(ratingDriver(), v, ratingPayment(), ratingNow)
		require.NoError(t, err)
		require.False(t, ev.Rejected)
	})

	t.Run("21 years old rejected", func(t *testing.T) {
		v := ratingVehicle()
		v.Year = ratingNow.Year() - 21
		ev, err := EvaluateRisk(ratingDriver(), v, ratingPayment(), ratingNow)
		require.NoError(t, err)
		require.True(t, ev.Rejected)
		require.Contains(t, ev.Reasons, "vehicle older than 20 years")
	})

	t.Run("suv and pickup carry the body surcharge", func(t *testing.T) {
		for _, bt := range []BodyType{BodyTypeSUV, BodyTypePickup} {
			v := ratingVehicle()
			v.BodyType = bt
			ev, err := EvaluateRisk(ratingDriver(), v, ratingPayment(), ratingNow)
			require.NoError(t, err)
			require.Equal(t, 15000.0, ev.SurchargeTotal)
		}
	})

	t.Run("commercial usage surcharge", func(t *testing.T) {
		v := ratingVehicle()
		v.Usage = UsageCommercial
		ev, err := EvaluateRisk(ratingDriver(), v, ratingPayment(), ratingNow)
		require.NoError(t, err)
		require.Len(t, ev.Surcharges, 1)
		require.Equal(t, "commercial usage", ev.Surcharges[0].Label)
	})
}

func TestEvaluateRisk_PaymentKeywords(t *testing.T) {
	t.Run("installment surcharge case insensitive", func(t *testing.T) {
		pm := PaymentMethod{ID: "pm1", Type: "Monthly INSTALLMENT plan"}
		ev, err := EvaluateRisk(ratingDriver(), ratingVehicle(), pm, ratingNow)
		require.NoError(t, err)
		require.Len(t, ev.Surcharges, 1)
		require.Equal(t, "installment payments", ev.Surcharges[0].Label)
	})

	t.Run("credit discount", func(t *testing.T) {
		pm := PaymentMethod{ID: "pm1", Type: "credit card"}
		ev, err := EvaluateRisk(ratingDriver(), ratingVehicle(), pm, ratingNow)
		require.NoError(t, err)
		require.Len(t, ev.Discounts, 2)
		require.Equal(t, 15000.0, ev.DiscountTotal)
	})
}

func TestEvaluateRisk_RejectionsAccumulate(t *testing.T) {
	d := ratingDriver()
	d.Age = 17
	d.Accidents = 5
	v := ratingVehicle()
	v.Year = ratingNow.Year() - 30

	ev, err := EvaluateRisk(d, v, ratingPayment(), ratingNow)
	require.NoError(t, err)
	require.True(t, ev.Rejected)
	require.Equal(t, []string{
		"driver under 18",
		"more than 3 recorded accidents",
		"vehicle older than 20 years",
	}, ev.Reasons)
}

func TestEvaluateRisk_RejectedStillPriced(t *testing.T) {
	d := ratingDriver()
	d.Age = 80
	ev, err := EvaluateRisk(d, ratingVehicle(), ratingPayment(), ratingNow)
	require.NoError(t, err)

	require.True(t, ev.Rejected)
	// The breakdown is still computed for a rejected risk.
	require.Equal(t, 100000.0, ev.BaseCost)
	require.Equal(t, 90000.0, ev.FinalCost)
}

func TestEvaluateRisk_Rounding(t *testing.T) {
	v := ratingVehicle()
	v.Price = 333.33
	d := ratingDriver()
	d.Age = 20 // +20%

	ev, err := EvaluateRisk(d, v, ratingPayment(), ratingNow)
	require.NoError(t, err)

	// Each line is rounded before summing: 333.33*0.20 = 66.666 -> 66.67.
	require.Equal(t, 66.67, ev.SurchargeTotal)
	require.Equal(t, 33.33, ev.DiscountTotal)
	require.Equal(t, 366.67, ev.FinalCost)
}

func TestEvaluateRisk_FinalCostClampedAtZero(t *testing.T) {
	// Discounts can never push the premium below zero, whatever the inputs.
	ev, err := EvaluateRisk(ratingDriver(), ratingVehicle(), PaymentMethod{ID: "pm1", Type: "credit"}, ratingNow)
	require.NoError(t, err)
	require.GreaterOrEqual(t, ev.FinalCost, 0.0)
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.004:   1.0,
		1.006:   1.01,
		66.666:  66.67,
		1234.0:  1234.0,
		0.0:     0.0,
		99.9949: 99.99,
	}
	for in, want := range cases {
		if got := round2(in); got != want {
			t.Fatalf("round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestEvaluateRisk_ValidationErrorIsSentinel(t *testing.T) {
	v := ratingVehicle()
	v.Price = -100
	_, err := EvaluateRisk(ratingDriver(), v, ratingPayment(), ratingNow)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
