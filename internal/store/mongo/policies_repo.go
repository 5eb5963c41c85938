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

type PolicyRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewPolicyRepo(db *mongodrv.Database, opTimeout time.Duration) *PolicyRepoMongo {
	return &PolicyRepoMongo{coll: db.Collection(ColPolicies), opTimeout: opTimeout}
}

// Create relies on the unique (quotation_id, renewed_from) and number
// indexes: a concurrent duplicate insert loses with ErrPolicyExists.
func (repo *PolicyRepoMongo) Create(ctx context.Context, p core.Policy) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, toPolicyDoc(p)); err != nil {
		if isDuplicateKey(err) {
			return core.ErrPolicyExists
		}
		return fmt.Errorf("policies.insert: %w", err)
	}
	return nil
}

func (repo *PolicyRepoMongo) Get(ctx context.Context, id string) (core.Policy, error) {
	return repo.findOne(ctx, bson.M{"_id": id}, "policies.findOne")
}

func (repo *PolicyRepoMongo) GetByNumber(ctx context.Context, number string) (core.Policy, error) {
	return repo.findOne(ctx, bson.M{"number": number}, "policies.findByNumber")
}

func (repo *PolicyRepoMongo) GetByQuotationID(ctx context.Context, quotationID string) (core.Policy, error) {
	return repo.findOne(ctx,
		bson.M{"quotation_id": quotationID, "renewed_from": ""},
		"policies.findByQuotation")
}

func (repo *PolicyRepoMongo) findOne(ctx context.Context, filter bson.M, op string) (core.Policy, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc PolicyDoc
	err := repo.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Policy{}, core.ErrPolicyNotFound
		}
		return core.Policy{}, fmt.Errorf("%s: %w", op, err)
	}
	return fromPolicyDoc(doc), nil
}

func (repo *PolicyRepoMongo) List(ctx context.Context, filter core.PolicyFilter, limit, offset int) ([]core.Policy, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	mongoFilter := bson.M{}
	if filter.QuotationID != "" {
		mongoFilter["quotation_id"] = filter.QuotationID
	}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}

	total, err := repo.coll.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("policies.count: %w", err)
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset)).
		SetSort(bson.D{{Key: "issued_at", Value: -1}})

	cursor, err := repo.coll.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("policies.find: %w", err)
	}
	defer cursor.Close(ctx)

	var policies []core.Policy
	for cursor.Next(ctx) {
		var doc PolicyDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("policies.decode: %w", err)
		}
		policies = append(policies, fromPolicyDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("policies.cursor: %w", err)
	}

	return policies, total, nil
}

// Update is a compare-and-swap on the version field, mirroring the
// quotation repo.
func (repo *PolicyRepoMongo) Update(ctx context.Context, p core.Policy) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	doc := toPolicyDoc(p)
	doc.Version = p.Version + 1

	res, err := repo.coll.ReplaceOne(ctx,
		bson.M{"_id": p.ID, "version": p.Version}, doc)
	if err != nil {
		return fmt.Errorf("policies.replace: %w", err)
	}
	if res.MatchedCount == 0 {
		count, err := repo.coll.CountDocuments(ctx, bson.M{"_id": p.ID})
		if err != nil {
			return fmt.Errorf("policies.count: %w", err)
		}
		if count == 0 {
			return core.ErrPolicyNotFound
		}
		return fmt.Errorf("%w: policy was modified concurrently", core.ErrConflict)
	}
	return nil
}
