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

type DriverRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
}

func NewDriverRepo(db *mongodrv.Database, opTimeout time.Duration) *DriverRepoMongo {
	return &DriverRepoMongo{coll: db.Collection(ColDrivers), opTimeout: opTimeout}
}

func (repo *DriverRepoMongo) Create(ctx context.Context, d core.Driver) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, toDriverDoc(d)); err != nil {
		return fmt.Errorf("drivers.insert: %w", err)
	}
	return nil
}

func (repo *DriverRepoMongo) Get(ctx context.Context, id string) (core.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc DriverDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.Driver{}, core.ErrDriverNotFound
		}
		return core.Driver{}, fmt.Errorf("drivers.findOne: %w", err)
	}
	return fromDriverDoc(doc), nil
}

func (repo *DriverRepoMongo) List(ctx context.Context) ([]core.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("drivers.find: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []core.Driver
	for cursor.Next(ctx) {
		var doc DriverDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("drivers.decode: %w", err)
		}
		drivers = append(drivers, fromDriverDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("drivers.cursor: %w", err)
	}
	return drivers, nil
}

func (repo *DriverRepoMongo) Update(ctx context.Context, d core.Driver) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, toDriverDoc(d))
	if err != nil {
		return fmt.Errorf("drivers.replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrDriverNotFound
	}
	return nil
}

func (repo *DriverRepoMongo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("drivers.delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return core.ErrDriverNotFound
	}
	return nil
}
