package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MrKriegler/auto-insurance/internal/core"
	"github.com/MrKriegler/auto-insurance/internal/platform/config"
	"github.com/MrKriegler/auto-insurance/internal/platform/ids"
	"github.com/MrKriegler/auto-insurance/internal/platform/logging"
	"github.com/MrKriegler/auto-insurance/internal/store/mongo"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Connect to Mongo
	client, err := mongo.NewClient(cfg)
	if err != nil {
		log.Error("failed to connect to MongoDB", "err", err)
		return
	}
	defer client.Close(ctx)

	db := client.DB

	log.Info("seeding reference data")

	seedDrivers(ctx, mongo.NewDriverRepo(db, 5*time.Second))
	seedVehicles(ctx, mongo.NewVehicleRepo(db, 5*time.Second))
	seedPaymentMethods(ctx, mongo.NewPaymentMethodRepo(db, 5*time.Second))

	log.Info("done seeding")
}

func seedDrivers(ctx context.Context, repo *mongo.DriverRepoMongo) {
	drivers := []core.Driver{
		{
			ID:           ids.New(),
			FirstName:    "Laura",
			LastName:     "Mendoza",
			Age:          34,
			LicenseClass: core.LicenseClassB,
			Phone:        "5512345678",
			Accidents:    0,
		},
		{
			ID:           ids.New(),
			FirstName:    "Carlos",
			LastName:     "Rivera",
			Age:          22,
			LicenseClass: core.LicenseClassA,
			Phone:        "5587654321",
			Accidents:    1,
		},
		{
			ID:           ids.New(),
			FirstName:    "Elena",
			LastName:     "Fuentes",
			Age:          68,
			LicenseClass: core.LicenseClassC,
			Phone:        "5511223344",
			Accidents:    2,
		},
	}

	for _, d := range drivers {
		if err := repo.Create(ctx, d); err != nil {
			fmt.Printf("failed to seed driver %s %s: %v\n", d.FirstName, d.LastName, err)
		} else {
			fmt.Printf("seeded driver: %s %s\n", d.FirstName, d.LastName)
		}
	}
}

func seedVehicles(ctx context.Context, repo *mongo.VehicleRepoMongo) {
	vehicles := []core.Vehicle{
		{
			ID:       ids.New(),
			Model:    "Honda Civic",
			Year:     2021,
			Color:    "blue",
			BodyType: core.BodyTypeSedan,
			Usage:    core.UsagePersonal,
			Price:    320000,
		},
		{
			ID:       ids.New(),
			Model:    "Toyota Hilux",
			Year:     2019,
			Color:    "white",
			BodyType: core.BodyTypePickup,
			Usage:    core.UsageCommercial,
			Price:    450000,
		},
		{
			ID:       ids.New(),
			Model:    "Mazda CX-5",
			Year:     2023,
			Color:    "red",
			BodyType: core.BodyTypeSUV,
			Usage:    core.UsagePersonal,
			Price:    520000,
		},
	}

	for _, v := range vehicles {
		if err := repo.Create(ctx, v); err != nil {
			fmt.Printf("failed to seed vehicle %s: %v\n", v.Model, err)
		} else {
			fmt.Printf("seeded vehicle: %s\n", v.Model)
		}
	}
}

func seedPaymentMethods(ctx context.Context, repo *mongo.PaymentMethodRepoMongo) {
	methods := []core.PaymentMethod{
		{ID: ids.New(), Type: "credit card", Validated: true},
		{ID: ids.New(), Type: "debit card", Validated: true},
		{ID: ids.New(), Type: "monthly installment plan", Validated: true},
		{ID: ids.New(), Type: "bank transfer", Validated: false},
	}

	for _, pm := range methods {
		if err := repo.Create(ctx, pm); err != nil {
			fmt.Printf("failed to seed payment method %s: %v\n", pm.Type, err)
		} else {
			fmt.Printf("seeded payment method: %s\n", pm.Type)
		}
	}
}
