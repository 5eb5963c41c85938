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

type VehicleItem struct {
	ID       string  `dynamodbav:"id"`
	Model    string  `dynamodbav:"model"`
	Year     int     `dynamodbav:"year"`
	Color    string  `dynamodbav:"color"`
	BodyType string  `dynamodbav:"body_type"`
	Usage    string  `dynamodbav:"usage"`
	Price    float64 `dynamodbav:"price"`
}

func (i VehicleItem) ToCore() core.Vehicle {
	return core.Vehicle{
		ID:       i.ID,
		Model:    i.Model,
		Year:     i.Year,
		Color:    i.Color,
		BodyType: core.BodyType(i.BodyType),
		Usage:    core.VehicleUsage(i.Usage),
		Price:    i.Price,
	}
}

func vehicleItemFromCore(v core.Vehicle) VehicleItem {
	return VehicleItem{
		ID:       v.ID,
		Model:    v.Model,
		Year:     v.Year,
		Color:    v.Color,
		BodyType: string(v.BodyType),
		Usage:    string(v.Usage),
		Price:    v.Price,
	}
}

type VehicleRepo struct {
	client *dynamodb.Client
}

func NewVehicleRepo(client *dynamodb.Client) *VehicleRepo {
	return &VehicleRepo{client: client}
}

func (r *VehicleRepo) Create(ctx context.Context, v core.Vehicle) error {
	av, err := attributevalue.MarshalMap(vehicleItemFromCore(v))
	if err != nil {
		return fmt.Errorf("vehicles.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TableVehicles),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("vehicles.putItem: %w", err)
	}
	return nil
}

func (r *VehicleRepo) Get(ctx context.Context, id string) (core.Vehicle, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableVehicles),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.Vehicle{}, fmt.Errorf("vehicles.getItem: %w", err)
	}
	if out.Item == nil {
		return core.Vehicle{}, core.ErrVehicleNotFound
	}

	var item VehicleItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Vehicle{}, fmt.Errorf("vehicles.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (r *VehicleRepo) List(ctx context.Context) ([]core.Vehicle, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(TableVehicles),
	})
	if err != nil {
		return nil, fmt.Errorf("vehicles.scan: %w", err)
	}

	vehicles := make([]core.Vehicle, 0, len(out.Items))
	for _, raw := range out.Items {
		var item VehicleItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("vehicles.unmarshal: %w", err)
		}
		vehicles = append(vehicles, item.ToCore())
	}
	return vehicles, nil
}

func (r *VehicleRepo) Update(ctx context.Context, v core.Vehicle) error {
	av, err := attributevalue.MarshalMap(vehicleItemFromCore(v))
	if err != nil {
		return fmt.Errorf("vehicles.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(TableVehicles),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return core.ErrVehicleNotFound
		}
		return fmt.Errorf("vehicles.putItem: %w", err)
	}
	return nil
}

func (r *VehicleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(TableVehicles),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return core.ErrVehicleNotFound
		}
		return fmt.Errorf("vehicles.deleteItem: %w", err)
	}
	return nil
}
