package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := ensureQuotationsIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure quotations indexes: %w", err)
	}
	if err := ensurePoliciesIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure policies indexes: %w", err)
	}
	return nil
}

func ensureQuotationsIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColQuotations)
	models := []mongo.IndexModel{
		newIndex("driver_id", 1, "quotations_driver_id", false),
		newIndex("vehicle_id", 1, "quotations_vehicle_id", false),
		newIndex("payment_method_id", 1, "quotations_payment_method_id", false),
		newIndex("status", 1, "quotations_status", false),
		newIndex("issued_at", 1, "quotations_issued_at", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func ensurePoliciesIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ColPolicies)
	models := []mongo.IndexModel{
		newIndex("number", 1, "policies_number_unique", true),
		// One policy per (quotation, predecessor): first issuance races and
		// duplicate renewals both collapse onto this constraint.
		{
			Keys: bson.D{{Key: "quotation_id", Value: 1}, {Key: "renewed_from", Value: 1}},
			Options: options.Index().
				SetName("policies_quotation_renewal_unique").
				SetUnique(true),
		},
		newIndex("issued_at", 1, "policies_issued_at", false),
		newIndex("status", 1, "policies_status", false),
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func newIndex(field string, asc int32, name string, unique bool) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts = opts.SetUnique(true)
	}
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: asc}},
		Options: opts,
	}
}
