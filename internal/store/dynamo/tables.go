package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Table names
const (
	TableDrivers        = "auto_drivers"
	TableVehicles       = "auto_vehicles"
	TablePaymentMethods = "auto_payment_methods"
	TableQuotations     = "auto_quotations"
	TablePolicies       = "auto_policies"
)

// GSI names
const (
	GSIQuotationsDriverID  = "driver_id-index"
	GSIQuotationsVehicleID = "vehicle_id-index"
	GSIQuotationsPaymentID = "payment_method_id-index"
	GSIPoliciesNumber      = "number-index"
	GSIPoliciesQuotationID = "quotation_id-index"
)

// EnsureTables creates all required tables if they don't exist.
func EnsureTables(ctx context.Context, client *dynamodb.Client, log *slog.Logger) error {
	tables := []struct {
		name   string
		create func(context.Context, *dynamodb.Client) error
	}{
		{TableDrivers, createSimpleTable(TableDrivers)},
		{TableVehicles, createSimpleTable(TableVehicles)},
		{TablePaymentMethods, createSimpleTable(TablePaymentMethods)},
		{TableQuotations, createQuotationsTable},
		{TablePolicies, createPoliciesTable},
	}

	for _, t := range tables {
		exists, err := tableExists(ctx, client, t.name)
		if err != nil {
			return fmt.Errorf("check table %s: %w", t.name, err)
		}
		if exists {
			log.Info("table exists", "table", t.name)
			continue
		}

		log.Info("creating table", "table", t.name)
		if err := t.create(ctx, client); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		log.Info("table created", "table", t.name)
	}

	return nil
}

func tableExists(ctx context.Context, client *dynamodb.Client, name string) (bool, error) {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// createSimpleTable builds a table with only an "id" hash key.
func createSimpleTable(name string) func(context.Context, *dynamodb.Client) error {
	return func(ctx context.Context, client *dynamodb.Client) error {
		_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(name),
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		return err
	}
}

func createQuotationsTable(ctx context.Context, client *dynamodb.Client) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(TableQuotations),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("driver_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("vehicle_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("payment_method_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			keysOnlyGSI(GSIQuotationsDriverID, "driver_id"),
			keysOnlyGSI(GSIQuotationsVehicleID, "vehicle_id"),
			keysOnlyGSI(GSIQuotationsPaymentID, "payment_method_id"),
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	return err
}

func createPoliciesTable(ctx context.Context, client *dynamodb.Client) error {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(TablePolicies),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("number"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("quotation_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			projectAllGSI(GSIPoliciesNumber, "number"),
			projectAllGSI(GSIPoliciesQuotationID, "quotation_id"),
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	return err
}

func keysOnlyGSI(name, hashKey string) types.GlobalSecondaryIndex {
	return types.GlobalSecondaryIndex{
		IndexName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeKeysOnly},
	}
}

func projectAllGSI(name, hashKey string) types.GlobalSecondaryIndex {
	return types.GlobalSecondaryIndex{
		IndexName: aws.String(name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
		},
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}
