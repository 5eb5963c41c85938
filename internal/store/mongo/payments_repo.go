package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/MrKriegler/auto-insurance/internal/core"
)

type PaymentMethodRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewPaymentMethodRepo(db *mongodrv.Database, opTimeout time.Duration) *PaymentMethodRepoMongo {
	return &PaymentMethodRepoMongo{coll: db.Collection(ColPaymentMethods), opTimeout: opTimeout}
}

func (repo *PaymentMethodRepoMongo) Create(ctx context.Context, pm core.PaymentMethod) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, toPaymentMethodDoc(pm)); err != nil {
		return fmt.Errorf("payment_methods.insert: %w", err)
	}
	return nil
}

func (repo *PaymentMethodRepoMongo) Get(ctx context.Context, id string) (core.PaymentMethod, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc PaymentMethodDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.PaymentMethod{}, core.ErrPaymentMethodNotFound
		}
		return core.PaymentMethod{}, fmt.Errorf("payment_methods.findOne: %w", err)
	}
	return fromPaymentMethodDoc(doc), nil
}

func (repo *PaymentMethodRepoMongo) List(ctx context.Context) ([]core.PaymentMethod, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("payment_methods.find: %w", err)
	}
	defer cursor.Close(ctx)

	var methods []core.PaymentMethod
	for cursor.Next(ctx) {
		var doc PaymentMethodDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("payment_methods.decode: %w", err)
		}
		methods = append(methods, fromPaymentMethodDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("payment_methods.cursor: %w", err)
	}
	return methods, nil
}

func (repo *PaymentMethodRepoMongo) Update(ctx context.Context, pm core.PaymentMethod) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": pm.ID}, toPaymentMethodDoc(pm))
	if err != nil {
		return fmt.Errorf("payment_methods.replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrPaymentMethodNotFound
	}
	return nil
}

func (repo *PaymentMethodRepoMongo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("payment_methods.delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return core.ErrPaymentMethodNotFound
	}
	return nil
}
