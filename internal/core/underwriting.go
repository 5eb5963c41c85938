package core

import (
	"fmt"
	"math"
	"time"
)

// Rating rule percentages, applied against the base cost (vehicle price).
const (
	surchargeYoungDriver     = 0.20 // age 18-24
	surchargeSeniorDriver    = 0.10 // age 66-75
	surchargePerAccident     = 0.05 // per accident, 1-3 accidents
	surchargeHighRiskBody    = 0.15 // SUV or pickup
	surchargeCommercialUse   = 0.15
	surchargeInstallments    = 0.10
	discountNoAccidents      = 0.10
	discountCreditPayment    = 0.05
	maxInsurableVehicleYears = 20
	maxDriverAccidents       = 3
	minDriverAge             = 18
	maxDriverAge             = 75
)

// LineItem is one named surcharge or discount contribution.
type LineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Evaluation is the full output of the underwriting calculator. The cost
// breakdown is computed even when the risk is rejected, so the caller can
// show the applicant what the premium would have been.
type Evaluation struct {
	BaseCost       float64    `json:"base_cost"`
	Surcharges     []LineItem `json:"surcharges"`
	Discounts      []LineItem `json:"discounts"`
	SurchargeTotal float64    `json:"surcharge_total"`
	DiscountTotal  float64    `json:"discount_total"`
	FinalCost      float64    `json:"final_cost"`
	Rejected       bool       `json:"rejected"`
	Reasons        []string   `json:"reasons,omitempty"`
}

// EvaluateRisk applies the underwriting rules to a driver/vehicle/payment
// triple. Pure: no I/O, no clock access beyond the supplied reference time.
//
// Each contributing amount is rounded to 2 decimals before summing, and the
// final cost is clamped at zero. The no-accident discount and the
// per-accident surcharge are mutually exclusive bands.
func EvaluateRisk(d Driver, v Vehicle, pm PaymentMethod, now time.Time) (Evaluation, error) {
	if v.Price <= 0 {
		return Evaluation{}, fmt.Errorf("%w: vehicle price must be greater than zero", ErrValidation)
	}

	base := round2(v.Price)
	ev := Evaluation{BaseCost: base}

	surcharge := func(label string, pct float64) {
		ev.Surcharges = append(ev.Surcharges, LineItem{Label: label, Amount: round2(base * pct)})
	}
	discount := func(label string, pct float64) {
		ev.Discounts = append(ev.Discounts, LineItem{Label: label, Amount: round2(base * pct)})
	}
	reject := func(reason string) {
		ev.Rejected = true
		ev.Reasons = append(ev.Reasons, reason)
	}

	// Driver age bands. The three bands are disjoint; the under/over bounds
	// are hard rejects, 18 and 75 inclusive are insurable.
	switch {
	case d.Age < minDriverAge:
		reject("driver under 18")
	case d.Age <= 24:
		surcharge("young driver", surchargeYoungDriver)
	case d.Age > maxDriverAge:
		reject("driver over 75")
	case d.Age > 65:
		surcharge("senior driver", surchargeSeniorDriver)
	}

	// Accident history: discount and surcharge bands never overlap.
	switch {
	case d.Accidents == 0:
		discount("no accident history", discountNoAccidents)
	case d.Accidents <= maxDriverAccidents:
		surcharge(fmt.Sprintf("%d recorded accidents", d.Accidents),
			surchargePerAccident*float64(d.Accidents))
	default:
		reject("more than 3 recorded accidents")
	}

	// Vehicle rules. Exactly 20 years old is still insurable.
	if v.AgeAt(now) > maxInsurableVehicleYears {
		reject("vehicle older than 20 years")
	}
	if v.BodyType == BodyTypeSUV || v.BodyType == BodyTypePickup {
		surcharge("high-risk body type", surchargeHighRiskBody)
	}
	if v.Usage == UsageCommercial {
		surcharge("commercial usage", surchargeCommercialUse)
	}

	// Payment method keywords.
	if pm.TypeContains("installment") {
		surcharge("installment payments", surchargeInstallments)
	}
	if pm.TypeContains("credit") {
		discount("credit payment", discountCreditPayment)
	}

	for _, li := range ev.Surcharges {
		ev.SurchargeTotal += li.Amount
	}
	for _, li := range ev.Discounts {
		ev.DiscountTotal += li.Amount
	}
	ev.SurchargeTotal = round2(ev.SurchargeTotal)
	ev.DiscountTotal = round2(ev.DiscountTotal)
	ev.FinalCost = math.Max(round2(base+ev.SurchargeTotal-ev.DiscountTotal), 0)

	return ev, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
