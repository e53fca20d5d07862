package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/catalog/internal/catalog/auth"
	"github.com/gartstein/catalog/internal/catalog/controller"
	"github.com/gartstein/catalog/internal/catalog/events"
	"github.com/gartstein/catalog/internal/catalog/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// eventProducer is what serve needs from the Kafka or no-op producer.
type eventProducer interface {
	controller.EventProducer
	Close()
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and gRPC health servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	repo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}()

	var producer eventProducer = events.NopProducer{Logger: logger}
	if cfg.EventsEnabled() {
		kafkaProducer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			return err
		}
		producer = kafkaProducer
	} else {
		logger.Warn("KAFKA_BROKERS not set, product events are discarded")
	}
	defer producer.Close()

	productSvc := controller.NewProductService(repo, producer, logger)
	companySvc := controller.NewCompanyService(repo, logger)

	cors, err := handlers.CORS(handlers.CORSOptions{
		AllowedOrigins: cfg.CORSOrigins,
		PreviewPattern: cfg.CORSPreview,
	})
	if err != nil {
		return err
	}

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	if err := server.RegisterRoutes(
		handlers.NewProductHandler(productSvc, logger),
		handlers.NewCompanyHandler(companySvc, logger),
	); err != nil {
		return err
	}
	server.Use(handlers.Recoverer(logger), handlers.RequestLogger(logger), cors)
	if cfg.JWTSecret != "" {
		server.Use(func(next http.Handler) http.Handler {
			return auth.HTTPMiddleware(next, cfg.JWTSecret, logger)
		})
	} else {
		logger.Warn("JWT_SECRET not set, product mutations are unauthenticated")
	}

	if err := server.Start(ctx); err != nil {
		logger.Error("Server failed", zap.Error(err))
		return err
	}
	logger.Info("Servers stopped properly")
	return nil
}
