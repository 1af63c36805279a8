package main

import (
	"context"
	"errors"
	"fmt"
	"imageLocator/internal/archive"
	"imageLocator/internal/config"
	"imageLocator/internal/geocoder"
	"imageLocator/internal/http-server/handlers/archives/uploadArchive"
	"imageLocator/internal/http-server/handlers/callback/updateImageResult"
	"imageLocator/internal/http-server/handlers/images/uploadImages"
	"imageLocator/internal/http-server/handlers/locations/deleteLocation"
	"imageLocator/internal/http-server/handlers/locations/listLocations"
	"imageLocator/internal/http-server/router"
	"imageLocator/internal/kafka/consumer"
	"imageLocator/internal/kafka/producer"
	"imageLocator/internal/lib/logger/handlers/slogpretty"
	"imageLocator/internal/lib/logger/sl"
	"imageLocator/internal/models"
	"imageLocator/internal/objectstore"
	"imageLocator/internal/objectstore/gcs"
	"imageLocator/internal/objectstore/s3"
	"imageLocator/internal/prediction"
	"imageLocator/internal/rabbitmq"
	"imageLocator/internal/reconciler"
	"imageLocator/internal/storage/postgres"
	"imageLocator/internal/tasks"
	"imageLocator/internal/upload"
	"imageLocator/internal/worker"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	shutdownTimeout = 10 * time.Second
)

type sender interface {
	tasks.Sender
	Close() error
}

type subscriber interface {
	Run(ctx context.Context, handler func(context.Context, []byte) error) error
	Close() error
}

// @title                       Image Locator API
// @version                     1.0
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.apikey  CallbackToken
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting image locator", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err = storage.Migrate(ctx); err != nil {
		log.Error("failed to migrate storage", sl.Err(err))
		os.Exit(1)
	}

	store, closeStore, err := setupObjectStore(ctx, &cfg.ObjectStore)
	if err != nil {
		log.Error("failed to init object store", sl.Err(err))
		os.Exit(1)
	}

	queueSender, queueSubscriber, err := setupQueue(cfg, log)
	if err != nil {
		log.Error("failed to init task queue", sl.Err(err))
		os.Exit(1)
	}

	queue := tasks.NewQueue(queueSender)

	var geo geocoder.Geocoder = geocoder.Noop{}
	if cfg.Geocoder.Enabled {
		geo = geocoder.NewNominatim(&cfg.Geocoder)
	}

	defaults := models.GeoDefaults{
		Angle:  cfg.Geo.DefaultAngle,
		Height: cfg.Geo.DefaultHeight,
	}

	fileValidator := upload.NewValidator(cfg.Upload.VerifyImages, cfg.Upload.MaxFileBytes)
	orchestrator := upload.NewOrchestrator(log, store, storage, queue, cfg.Upload.Concurrency)
	expander := upload.NewArchiveExpander(log, storage, store, fileValidator, orchestrator, defaults, cfg.Upload.MaxRequestBytes)
	archives := archive.NewService(log, store, storage, queue)
	dispatcher := prediction.NewDispatcher(log, &cfg.Prediction, storage)
	callbacks := reconciler.New(log, storage, geo, store)
	taskWorker := worker.New(log, dispatcher, expander)

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)

		if err := queueSubscriber.Run(ctx, taskWorker.ProcessMessage); err != nil {
			log.Error("task worker stopped", sl.Err(err))
		}
	}()

	handler := router.New(log,
		router.Security{
			JWTSecret:     cfg.Auth.JWTSecret,
			CallbackToken: cfg.Auth.CallbackToken,
		},
		router.Handlers{
			UploadImages:      uploadImages.New(log, fileValidator, orchestrator, geo, defaults, cfg.Upload.MaxMemory, cfg.Upload.MaxRequestBytes),
			UploadArchive:     uploadArchive.New(log, archives, cfg.Upload.MaxMemory, cfg.Upload.MaxArchiveBytes),
			ListLocations:     listLocations.New(log, storage, store, cfg.ObjectStore.PresignTTL),
			DeleteLocation:    deleteLocation.New(log, storage, store),
			UpdateImageResult: updateImageResult.New(log, callbacks),
		},
	)

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("application stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn("task worker did not stop in time")
	}

	if err = queueSubscriber.Close(); err != nil {
		log.Error("failed to close queue subscriber", sl.Err(err))
	}

	if err = queueSender.Close(); err != nil {
		log.Error("failed to close queue sender", sl.Err(err))
	}

	log.Info("task queue closed")

	if err = closeStore(); err != nil {
		log.Error("failed to close object store", sl.Err(err))
	}

	if err = storage.Close(); err != nil {
		log.Error("failed to close database", sl.Err(err))
	}

	log.Info("application stopped")
}

func setupObjectStore(ctx context.Context, cfg *config.ObjectStore) (objectstore.Store, func() error, error) {
	switch cfg.Driver {
	case "gcs":
		store, err := gcs.New(ctx, &cfg.GCS)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := s3.New(ctx, &cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}

func setupQueue(cfg *config.Config, log *slog.Logger) (sender, subscriber, error) {
	switch cfg.Queue.Driver {
	case "rabbitmq":
		pub, err := rabbitmq.NewPublisher(&cfg.RabbitMQ, log)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}

		sub, err := rabbitmq.NewSubscriber(&cfg.RabbitMQ, log)
		if err != nil {
			_ = pub.Close()
			return nil, nil, fmt.Errorf("rabbitmq subscriber: %w", err)
		}

		return pub, sub, nil
	default:
		prod, err := producer.NewProducer(&cfg.Kafka, log)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}

		cons, err := consumer.NewConsumer(&cfg.Kafka, log)
		if err != nil {
			_ = prod.Close()
			return nil, nil, fmt.Errorf("kafka consumer: %w", err)
		}

		return prod, cons, nil
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
