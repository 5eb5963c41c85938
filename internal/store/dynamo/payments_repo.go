package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/MrKriegler/auto-insurance/internal/core"
)

type PaymentMethodItem struct {
	ID        string `dynamodbav:"id"`
	Type      string `dynamodbav:"type"`
	Validated bool   `dynamodbav:"validated"`
}

func (i PaymentMethodItem) ToCore() core.PaymentMethod {
	return core.PaymentMethod{ID: i.ID, Type: i.Type, Validated: i.Validated}
}

func paymentMethodItemFromCore(pm core.PaymentMethod) PaymentMethodItem {
	return PaymentMethodItem{ID: pm.ID, Type: pm.Type, Validated: pm.Validated}
}

type PaymentMethodRepo struct {
	client *dynamodb.Client
}

func NewPaymentMethodRepo(client *dynamodb.Client) *PaymentMethodRepo {
	return &PaymentMethodRepo{client: client}
}

func (r *PaymentMethodRepo) Create(ctx context.Context, pm core.PaymentMethod) error {
	av, err := attributevalue.MarshalMap(paymentMethodItemFromCore(pm))
	if err != nil {
		return fmt.Errorf("payments.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TablePaymentMethods),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("payments.putItem: %w", err)
	}
	return nil
}

func (r *PaymentMethodRepo) Get(ctx context.Context, id string) (core.PaymentMethod, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TablePaymentMethods),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.PaymentMethod{}, fmt.Errorf("payments.getItem: %w", err)
	}
	if out.Item == nil {
		return core.PaymentMethod{}, core.ErrPaymentMethodNotFound
	}

	var item PaymentMethodItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.PaymentMethod{}, fmt.Errorf("payments.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (r *PaymentMethodRepo) List(ctx context.Context) ([]core.PaymentMethod, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(TablePaymentMethods),
	})
	if err != nil {
		return nil, fmt.Errorf("payments.scan: %w", err)
	}

	methods := make([]core.PaymentMethod, 0, len(out.Items))
	for _, raw := range out.Items {
		var item PaymentMethodItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("payments.unmarshal: %w", err)
		}
		methods = append(methods, item.ToCore())
	}
	return methods, nil
}

func (r *PaymentMethodRepo) Update(ctx context.Context, pm core.PaymentMethod) error {
	av, err := attributevalue.MarshalMap(paymentMethodItemFromCore(pm))
	if err != nil {
		return fmt.Errorf("payments.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(TablePaymentMethods),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return core.ErrPaymentMethodNotFound
		}
		return fmt.Errorf("payments.putItem: %w", err)
	}
	return nil
}

func (r *PaymentMethodRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(TablePaymentMethods),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return core.ErrPaymentMethodNotFound
		}
		return fmt.Errorf("payments.deleteItem: %w", err)
	}
	return nil
}
