package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrKriegler/auto-insurance/internal/core"
)

type QuotationRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewQuotationRepo(db *mongodrv.Database, opTimeout time.Duration) *QuotationRepoMongo {
	return &QuotationRepoMongo{coll: db.Collection(ColQuotations), opTimeout: opTimeout}
}

func (repo *QuotationRepoMongo) Create(ctx context.Context, q core.Quotation) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, toQuotationDoc(q)); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: quotation %s already exists", core.ErrConflict, q.ID)
		}
		return fmt.Errorf("quotations.insert: %w", err)
	}
	return nil
}

func (repo *QuotationRepoMongo) Get(ctx context.Context, id string) (core.Quotation, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc QuotationDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Quotation{}, core.ErrQuotationNotFound
		}
		return core.Quotation{}, fmt.Errorf("quotations.findOne: %w", err)
	}
	return fromQuotationDoc(doc), nil
}

func (repo *QuotationRepoMongo) List(ctx context.Context, filter core.QuotationFilter) ([]core.Quotation, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	mongoFilter := bson.M{}
	if filter.DriverID != "" {
		mongoFilter["driver_id"] = filter.DriverID
	}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "issued_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("quotations.find: %w", err)
	}
	defer cursor.Close(ctx)

	var quotations []core.Quotation
	for cursor.Next(ctx) {
		var doc QuotationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("quotations.decode: %w", err)
		}
		quotations = append(quotations, fromQuotationDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("quotations.cursor: %w", err)
	}
	return quotations, nil
}

// Update is a compare-and-swap on the version field: the write only lands
// if no other request has transitioned the quotation in between.
func (repo *QuotationRepoMongo) Update(ctx context.Context, q core.Quotation) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	doc := toQuotationDoc(q)
	doc.Version = q.Version + 1

	res, err := repo.coll.ReplaceOne(ctx,
		bson.M{"_id": q.ID, "version": q.Version}, doc)
	if err != nil {
		return fmt.Errorf("quotations.replace: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing document from a lost race.
		count, err := repo.coll.CountDocuments(ctx, bson.M{"_id": q.ID})
		if err != nil {
			return fmt.Errorf("quotations.count: %w", err)
		}
		if count == 0 {
			return core.ErrQuotationNotFound
		}
		return fmt.Errorf("%w: quotation was modified concurrently", core.ErrConflict)
	}
	return nil
}

func (repo *QuotationRepoMongo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("quotations.delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return core.ErrQuotationNotFound
	}
	return nil
}

func (repo *QuotationRepoMongo) ExistsForDriver(ctx context.Context, driverID string) (bool, error) {
	return repo.exists(ctx, bson.M{"driver_id": driverID})
}

func (repo *QuotationRepoMongo) ExistsForVehicle(ctx context.Context, vehicleID string) (bool, error) {
	return repo.exists(ctx, bson.M{"vehicle_id": vehicleID})
}

func (repo *QuotationRepoMongo) ExistsForPaymentMethod(ctx context.Context, paymentMethodID string) (bool, error) {
	return repo.exists(ctx, bson.M{"payment_method_id": paymentMethodID})
}

func (repo *QuotationRepoMongo) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	count, err := repo.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("quotations.count: %w", err)
	}
	return count > 0, nil
}

func isDuplicateKey(err error) bool {
	var we mongodrv.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
