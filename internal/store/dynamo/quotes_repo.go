package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/MrKriegler/auto-insurance/internal/core"
)

type QuotationLineItem struct {
	Label  string  `dynamodbav:"label"`
	Amount float64 `dynamodbav:"amount"`
}

type QuotationItem struct {
	ID              string              `dynamodbav:"id"`
	DriverID        string              `dynamodbav:"driver_id"`
	VehicleID       string              `dynamodbav:"vehicle_id"`
	PaymentMethodID string              `dynamodbav:"payment_method_id"`
	IssuedAt        string              `dynamodbav:"issued_at"`
	ExpiresAt       string              `dynamodbav:"expires_at"`
	BaseCost        float64             `dynamodbav:"base_cost"`
	Surcharges      []QuotationLineItem `dynamodbav:"surcharges"`
	Discounts       []QuotationLineItem `dynamodbav:"discounts"`
	SurchargeTotal  float64             `dynamodbav:"surcharge_total"`
	DiscountTotal   float64             `dynamodbav:"discount_total"`
	FinalCost       float64             `dynamodbav:"final_cost"`
	Status          string              `dynamodbav:"status"`
	RejectionReason string              `dynamodbav:"rejection_reason,omitempty"`
	TermsAccepted   bool                `dynamodbav:"terms_accepted"`
	Version         int64               `dynamodbav:"version"`
}

func (i QuotationItem) ToCore() (core.Quotation, error) {
	issuedAt, err := time.Parse(time.RFC3339, i.IssuedAt)
	if err != nil {
		return core.Quotation{}, fmt.Errorf("parse issued_at: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339, i.ExpiresAt)
	if err != nil {
		return core.Quotation{}, fmt.Errorf("parse expires_at: %w", err)
	}

	return core.Quotation{
		ID:              i.ID,
		DriverID:        i.DriverID,
		VehicleID:       i.VehicleID,
		PaymentMethodID: i.PaymentMethodID,
		IssuedAt:        issuedAt,
		ExpiresAt:       expiresAt,
		BaseCost:        i.BaseCost,
		Surcharges:      lineItemsToCore(i.Surcharges),
		Discounts:       lineItemsToCore(i.Discounts),
		SurchargeTotal:  i.SurchargeTotal,
		DiscountTotal:   i.DiscountTotal,
		FinalCost:       i.FinalCost,
		Status:          core.QuotationStatus(i.Status),
		RejectionReason: i.RejectionReason,
		TermsAccepted:   i.TermsAccepted,
		Version:         i.Version,
	}, nil
}

func quotationItemFromCore(q core.Quotation) QuotationItem {
	return QuotationItem{
		ID:              q.ID,
		DriverID:        q.DriverID,
		VehicleID:       q.VehicleID,
		PaymentMethodID: q.PaymentMethodID,
		IssuedAt:        q.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt:       q.ExpiresAt.UTC().Format(time.RFC3339),
		BaseCost:        q.BaseCost,
		Surcharges:      lineItemsFromCore(q.Surcharges),
		Discounts:       lineItemsFromCore(q.Discounts),
		SurchargeTotal:  q.SurchargeTotal,
		DiscountTotal:   q.DiscountTotal,
		FinalCost:       q.FinalCost,
		Status:          string(q.Status),
		RejectionReason: q.RejectionReason,
		TermsAccepted:   q.TermsAccepted,
		Version:         q.Version,
	}
}

func lineItemsToCore(items []QuotationLineItem) []core.LineItem {
	if items == nil {
		return nil
	}
	out := make([]core.LineItem, len(items))
	for i, li := range items {
		out[i] = core.LineItem{Label: li.Label, Amount: li.Amount}
	}
	return out
}

func lineItemsFromCore(items []core.LineItem) []QuotationLineItem {
	if items == nil {
		return nil
	}
	out := make([]QuotationLineItem, len(items))
	for i, li := range items {
		out[i] = QuotationLineItem{Label: li.Label, Amount: li.Amount}
	}
	return out
}

type QuotationRepo struct {
	client *dynamodb.Client
}

func NewQuotationRepo(client *dynamodb.Client) *QuotationRepo {
	return &QuotationRepo{client: client}
}

func (r *QuotationRepo) Create(ctx context.Context, q core.Quotation) error {
	av, err := attributevalue.MarshalMap(quotationItemFromCore(q))
	if err != nil {
		return fmt.Errorf("quotations.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(TableQuotations),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("%w: quotation id already exists", core.ErrConflict)
		}
		return fmt.Errorf("quotations.putItem: %w", err)
	}
	return nil
}

func (r *QuotationRepo) Get(ctx context.Context, id string) (core.Quotation, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableQuotations),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.Quotation{}, fmt.Errorf("quotations.getItem: %w", err)
	}
	if out.Item == nil {
		return core.Quotation{}, core.ErrQuotationNotFound
	}

	var item QuotationItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Quotation{}, fmt.Errorf("quotations.unmarshal: %w", err)
	}
	return item.ToCore()
}

func (r *QuotationRepo) List(ctx context.Context, filter core.QuotationFilter) ([]core.Quotation, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(TableQuotations)}

	var conds []expression.ConditionBuilder
	if filter.DriverID != "" {
		conds = append(conds, expression.Name("driver_id").Equal(expression.Value(filter.DriverID)))
	}
	if filter.Status != "" {
		conds = append(conds, expression.Name("status").Equal(expression.Value(string(filter.Status))))
	}
	if len(conds) > 0 {
		cond := conds[0]
		for _, c := range conds[1:] {
			cond = cond.And(c)
		}
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return nil, fmt.Errorf("quotations.buildFilter: %w", err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	quotations := make([]core.Quotation, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("quotations.scan: %w", err)
		}
		for _, raw := range page.Items {
			var item QuotationItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("quotations.unmarshal: %w", err)
			}
			q, err := item.ToCore()
			if err != nil {
				return nil, err
			}
			quotations = append(quotations, q)
		}
	}

	// Scan order is undefined; present newest first like the mongo backend.
	sort.Slice(quotations, func(i, j int) bool {
		return quotations[i].IssuedAt.After(quotations[j].IssuedAt)
	})
	return quotations, nil
}

func (r *QuotationRepo) Update(ctx context.Context, q core.Quotation) error {
	next := q
	next.Version = q.Version + 1

	av, err := attributevalue.MarshalMap(quotationItemFromCore(next))
	if err != nil {
		return fmt.Errorf("quotations.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(TableQuotations),
		Item:                av,
		ConditionExpression:      aws.String("attribute_exists(id) AND #ver = :v"),
		ExpressionAttributeNames: map[string]string{"#ver": "version"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", q.Version)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			// Missing item and stale version look the same here. A follow-up
			// read tells them apart.
			if _, getErr := r.Get(ctx, q.ID); getErr != nil {
				return getErr
			}
			return fmt.Errorf("%w: quotation was modified concurrently", core.ErrConflict)
		}
		return fmt.Errorf("quotations.putItem: %w", err)
	}
	return nil
}

func (r *QuotationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(TableQuotations),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return core.ErrQuotationNotFound
		}
		return fmt.Errorf("quotations.deleteItem: %w", err)
	}
	return nil
}

func (r *QuotationRepo) ExistsForDriver(ctx context.Context, driverID string) (bool, error) {
	return r.existsByIndex(ctx, GSIQuotationsDriverID, "driver_id", driverID)
}

func (r *QuotationRepo) ExistsForVehicle(ctx context.Context, vehicleID string) (bool, error) {
	return r.existsByIndex(ctx, GSIQuotationsVehicleID, "vehicle_id", vehicleID)
}

func (r *QuotationRepo) ExistsForPaymentMethod(ctx context.Context, paymentMethodID string) (bool, error) {
	return r.existsByIndex(ctx, GSIQuotationsPaymentID, "payment_method_id", paymentMethodID)
}

func (r *QuotationRepo) existsByIndex(ctx context.Context, index, attr, value string) (bool, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(attr).Equal(expression.Value(value))).
		Build()
	if err != nil {
		return false, fmt.Errorf("quotations.buildKey: %w", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(TableQuotations),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("quotations.query %s: %w", index, err)
	}
	return len(out.Items) > 0, nil
}
