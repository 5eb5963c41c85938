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

type DriverItem struct {
	ID           string `dynamodbav:"id"`
	FirstName    string `dynamodbav:"first_name"`
	LastName     string `dynamodbav:"last_name"`
	Age          int    `dynamodbav:"age"`
	LicenseClass string `dynamodbav:"license_class"`
	Phone        string `dynamodbav:"phone"`
	Accidents    int    `dynamodbav:"accidents"`
}

func (i DriverItem) ToCore() core.Driver {
	return core.Driver{
		ID:           i.ID,
		FirstName:    i.FirstName,
		LastName:     i.LastName,
		Age:          i.Age,
		LicenseClass: core.LicenseClass(i.LicenseClass),
		Phone:        i.Phone,
		Accidents:    i.Accidents,
	}
}

func driverItemFromCore(d core.Driver) DriverItem {
	return DriverItem{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Age:          d.Age,
		LicenseClass: string(d.LicenseClass),
		Phone:        d.Phone,
		Accidents:    d.Accidents,
	}
}

type DriverRepo struct {
	client *dynamodb.Client
}

func NewDriverRepo(client *dynamodb.Client) *DriverRepo {
	return &DriverRepo{client: client}
}

func (r *DriverRepo) Create(ctx context.Context, d core.Driver) error {
	av, err := attributevalue.MarshalMap(driverItemFromCore(d))
	if err != nil {
		return fmt.Errorf("drivers.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TableDrivers),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("drivers.putItem: %w", err)
	}
	return nil
}

func (r *DriverRepo) Get(ctx context.Context, id string) (core.Driver, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(TableDrivers),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return core.Driver{}, fmt.Errorf("drivers.getItem: %w", err)
	}
	if out.Item == nil {
		return core.Driver{}, core.ErrDriverNotFound
	}

	var item DriverItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return core.Driver{}, fmt.Errorf("drivers.unmarshal: %w", err)
	}
	return item.ToCore(), nil
}

func (r *DriverRepo) List(ctx context.Context) ([]core.Driver, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(TableDrivers),
	})
	if err != nil {
		return nil, fmt.Errorf("drivers.scan: %w", err)
	}

	drivers := make([]core.Driver, 0, len(out.Items))
	for _, raw := range out.Items {
		var item DriverItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, fmt.Errorf("drivers.unmarshal: %w", err)
		}
		drivers = append(drivers, item.ToCore())
	}
	return drivers, nil
}

func (r *DriverRepo) Update(ctx context.Context, d core.Driver) error {
	av, err := attributevalue.MarshalMap(driverItemFromCore(d))
	if err != nil {
		return fmt.Errorf("drivers.marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(TableDrivers),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return core.ErrDriverNotFound
		}
		return fmt.Errorf("drivers.putItem: %w", err)
	}
	return nil
}

func (r *DriverRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(TableDrivers),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return core.ErrDriverNotFound
		}
		return fmt.Errorf("drivers.deleteItem: %w", err)
	}
	return nil
}
