package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"

	_ "github.com/MrKriegler/auto-insurance/docs"
	"github.com/MrKriegler/auto-insurance/internal/core"
	transporthttp "github.com/MrKriegler/auto-insurance/internal/http"
	"github.com/MrKriegler/auto-insurance/internal/http/handlers"
	"github.com/MrKriegler/auto-insurance/internal/http/health"
	"github.com/MrKriegler/auto-insurance/internal/middleware"
	"github.com/MrKriegler/auto-insurance/internal/platform/config"
	"github.com/MrKriegler/auto-insurance/internal/platform/logging"
	"github.com/MrKriegler/auto-insurance/internal/store/dynamo"
	"github.com/MrKriegler/auto-insurance/internal/store/mongo"
)

type repos struct {
	drivers  core.DriverRepo
	vehicles core.VehicleRepo
	payments core.PaymentMethodRepo
	quotes   core.QuotationRepo
	policies core.PolicyRepo
}

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opTimeout := time.Duration(cfg.StoreOpTimeoutMs) * time.Millisecond

	var (
		rs     repos
		pinger health.Pinger
	)

	switch cfg.DBType {
	case "dynamodb":
		log.Info("connecting to DynamoDB", "region", cfg.AWSRegion, "endpoint", cfg.DynamoDBEndpoint)
		client, err := dynamo.NewClient(ctx, dynamo.Config{
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.DynamoDBEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.Error("failed to connect to DynamoDB", "err", err)
			os.Exit(1)
		}
		if err := dynamo.EnsureTables(ctx, client.DB, log); err != nil {
			log.Error("failed to ensure DynamoDB tables", "err", err)
			os.Exit(1)
		}

		rs = repos{
			drivers:  dynamo.NewDriverRepo(client.DB),
			vehicles: dynamo.NewVehicleRepo(client.DB),
			payments: dynamo.NewPaymentMethodRepo(client.DB),
			quotes:   dynamo.NewQuotationRepo(client.DB),
			policies: dynamo.NewPolicyRepo(client.DB),
		}
		pinger = client

	default: // mongo
		log.Info("connecting to MongoDB", "db", cfg.MongoDB)
		client, err := mongo.NewClient(cfg)
		if err != nil {
			log.Error("failed to connect to MongoDB", "err", err)
			os.Exit(1)
		}
		defer client.Close(context.Background())

		if err := mongo.EnsureIndexes(ctx, client.DB); err != nil {
			log.Error("failed to ensure MongoDB indexes", "err", err)
			os.Exit(1)
		}

		rs = repos{
			drivers:  mongo.NewDriverRepo(client.DB, opTimeout),
			vehicles: mongo.NewVehicleRepo(client.DB, opTimeout),
			payments: mongo.NewPaymentMethodRepo(client.DB, opTimeout),
			quotes:   mongo.NewQuotationRepo(client.DB, opTimeout),
			policies: mongo.NewPolicyRepo(client.DB, opTimeout),
		}
		pinger = client
	}

	driverSvc := core.NewDriverService(rs.drivers, rs.quotes)
	vehicleSvc := core.NewVehicleService(rs.vehicles, rs.quotes)
	paymentSvc := core.NewPaymentMethodService(rs.payments, rs.quotes)
	quotationSvc := core.NewQuotationService(rs.drivers, rs.vehicles, rs.payments, rs.quotes, rs.policies)
	policySvc := core.NewPolicyService(rs.policies, rs.quotes)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.LimitRequestBody(middleware.MaxBodySize))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPM, time.Minute)
	limiter.StartWithContext(ctx)
	r.Use(limiter.Middleware)
	r.Use(middleware.SimpleAPIKey(cfg.APIKey))

	r.Mount("/", health.New(log, pinger, opTimeout))

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, "swagger doc unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	api := transporthttp.NewRouter(transporthttp.Deps{
		Mounts: []handlers.Mountable{
			handlers.NewDriverHandler(driverSvc, log),
			handlers.NewVehicleHandler(vehicleSvc, log),
			handlers.NewPaymentMethodHandler(paymentSvc, log),
			handlers.NewQuotationHandler(quotationSvc, log),
			handlers.NewPolicyHandler(policySvc, log),
		},
	})
	r.Mount("/api/v1", api)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr, "env", cfg.Env, "db", cfg.DBType)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}

	log.Info("server stopped")
}
