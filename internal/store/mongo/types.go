package mongo

import (
	"time"

	"github.com/MrKriegler/auto-insurance/internal/core"
)

const (
	ColDrivers        = "drivers"
	ColVehicles       = "vehicles"
	ColPaymentMethods = "payment_methods"
	ColQuotations     = "quotations"
	ColPolicies       = "policies"
)

type DriverDoc struct {
	ID           string `bson:"_id"`
	FirstName    string `bson:"first_name"`
	LastName     string `bson:"last_name"`
	Age          int    `bson:"age"`
	LicenseClass string `bson:"license_class"`
	Phone        string `bson:"phone"`
	Accidents    int    `bson:"accidents"`
}

func fromDriverDoc(d DriverDoc) core.Driver {
	return core.Driver{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Age:          d.Age,
		LicenseClass: core.LicenseClass(d.LicenseClass),
		Phone:        d.Phone,
		Accidents:    d.Accidents,
	}
}

func toDriverDoc(d core.Driver) DriverDoc {
	return DriverDoc{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Age:          d.Age,
		LicenseClass: string(d.LicenseClass),
		Phone:        d.Phone,
		Accidents:    d.Accidents,
	}
}

type VehicleDoc struct {
	ID       string  `bson:"_id"`
	Model    string  `bson:"model"`
	Year     int     `bson:"year"`
	Color    string  `bson:"color"`
	BodyType string  `bson:"body_type"`
	Usage    string  `bson:"usage"`
	Price    float64 `bson:"price"`
}

func fromVehicleDoc(d VehicleDoc) core.Vehicle {
	return core.Vehicle{
		ID:       d.ID,
		Model:    d.Model,
		Year:     d.Year,
		Color:    d.Color,
		BodyType: core.BodyType(d.BodyType),
		Usage:    core.VehicleUsage(d.Usage),
		Price:    d.Price,
	}
}

func toVehicleDoc(v core.Vehicle) VehicleDoc {
	return VehicleDoc{
		ID:       v.ID,
		Model:    v.Model,
		Year:     v.Year,
		Color:    v.Color,
		BodyType: string(v.BodyType),
		Usage:    string(v.Usage),
		Price:    v.Price,
	}
}

type PaymentMethodDoc struct {
	ID        string `bson:"_id"`
	Type      string `bson:"type"`
	Validated bool   `bson:"validated"`
}

func fromPaymentMethodDoc(d PaymentMethodDoc) core.PaymentMethod {
	return core.PaymentMethod{ID: d.ID, Type: d.Type, Validated: d.Validated}
}

func toPaymentMethodDoc(pm core.PaymentMethod) PaymentMethodDoc {
	return PaymentMethodDoc{ID: pm.ID, Type: pm.Type, Validated: pm.Validated}
}

type LineItemDoc struct {
	Label  string  `bson:"label"`
	Amount float64 `bson:"amount"`
}

type QuotationDoc struct {
	ID              string        `bson:"_id"`
	DriverID        string        `bson:"driver_id"`
	VehicleID       string        `bson:"vehicle_id"`
	PaymentMethodID string        `bson:"payment_method_id"`
	IssuedAt        time.Time     `bson:"issued_at"`
	ExpiresAt       time.Time     `bson:"expires_at"`
	BaseCost        float64       `bson:"base_cost"`
	Surcharges      []LineItemDoc `bson:"surcharges"`
	Discounts       []LineItemDoc `bson:"discounts"`
	SurchargeTotal  float64       `bson:"surcharge_total"`
	DiscountTotal   float64       `bson:"discount_total"`
	FinalCost       float64       `bson:"final_cost"`
	Status          string        `bson:"status"`
	RejectionReason string        `bson:"rejection_reason,omitempty"`
	TermsAccepted   bool          `bson:"terms_accepted"`
	Version         int64         `bson:"version"`
}

func fromQuotationDoc(d QuotationDoc) core.Quotation {
	return core.Quotation{
		ID:              d.ID,
		DriverID:        d.DriverID,
		VehicleID:       d.VehicleID,
		PaymentMethodID: d.PaymentMethodID,
		IssuedAt:        d.IssuedAt,
		ExpiresAt:       d.ExpiresAt,
		BaseCost:        d.BaseCost,
		Surcharges:      fromLineItemDocs(d.Surcharges),
		Discounts:       fromLineItemDocs(d.Discounts),
		SurchargeTotal:  d.SurchargeTotal,
		DiscountTotal:   d.DiscountTotal,
		FinalCost:       d.FinalCost,
		Status:          core.QuotationStatus(d.Status),
		RejectionReason: d.RejectionReason,
		TermsAccepted:   d.TermsAccepted,
		Version:         d.Version,
	}
}

func toQuotationDoc(q core.Quotation) QuotationDoc {
	return QuotationDoc{
		ID:              q.ID,
		DriverID:        q.DriverID,
		VehicleID:       q.VehicleID,
		PaymentMethodID: q.PaymentMethodID,
		IssuedAt:        q.IssuedAt,
		ExpiresAt:       q.ExpiresAt,
		BaseCost:        q.BaseCost,
		Surcharges:      toLineItemDocs(q.Surcharges),
		Discounts:       toLineItemDocs(q.Discounts),
		SurchargeTotal:  q.SurchargeTotal,
		DiscountTotal:   q.DiscountTotal,
		FinalCost:       q.FinalCost,
		Status:          string(q.Status),
		RejectionReason: q.RejectionReason,
		TermsAccepted:   q.TermsAccepted,
		Version:         q.Version,
	}
}

func fromLineItemDocs(docs []LineItemDoc) []core.LineItem {
	if docs == nil {
		return nil
	}
	items := make([]core.LineItem, len(docs))
	for i, d := range docs {
		items[i] = core.LineItem{Label: d.Label, Amount: d.Amount}
	}
	return items
}

func toLineItemDocs(items []core.LineItem) []LineItemDoc {
	if items == nil {
		return nil
	}
	docs := make([]LineItemDoc, len(items))
	for i, li := range items {
		docs[i] = LineItemDoc{Label: li.Label, Amount: li.Amount}
	}
	return docs
}

type PolicyDoc struct {
	ID          string    `bson:"_id"`
	Number      string    `bson:"number"`
	QuotationID string    `bson:"quotation_id"`
	RenewedFrom string    `bson:"renewed_from"`
	StartDate   time.Time `bson:"start_date"`
	EndDate     time.Time `bson:"end_date"`
	Status      string    `bson:"status"`
	Notes       []string  `bson:"notes"`
	IssuedAt    time.Time `bson:"issued_at"`
	Version     int64     `bson:"version"`
}

func fromPolicyDoc(d PolicyDoc) core.Policy {
	return core.Policy{
		ID:          d.ID,
		Number:      d.Number,
		QuotationID: d.QuotationID,
		RenewedFrom: d.RenewedFrom,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Status:      core.PolicyStatus(d.Status),
		Notes:       d.Notes,
		IssuedAt:    d.IssuedAt,
		Version:     d.Version,
	}
}

func toPolicyDoc(p core.Policy) PolicyDoc {
	return PolicyDoc{
		ID:          p.ID,
		Number:      p.Number,
		QuotationID: p.QuotationID,
		RenewedFrom: p.RenewedFrom,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      string(p.Status),
		Notes:       p.Notes,
		IssuedAt:    p.IssuedAt,
		Version:     p.Version,
	}
}
