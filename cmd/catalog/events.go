package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/catalog/internal/catalog/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Tail product events from Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.EventsEnabled() {
				return fmt.Errorf("KAFKA_BROKERS is not configured")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			consumer := events.NewConsumer(a.cfg.KafkaBrokers, a.cfg.KafkaGroupID, a.cfg.Topic, a.logger)
			defer consumer.Close()

			consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
				if event.Product == nil {
					a.logger.Warn("Event without product", zap.String("type", string(event.Type)))
					return nil
				}
				a.logger.Info("Product event",
					zap.String("type", string(event.Type)),
					zap.String("product_id", event.Product.ID.String()),
					zap.String("sku", event.Product.SKU),
					zap.Time("occurred_at", event.OccurredAt),
				)
				return nil
			})
			consumer.Start(ctx)
			consumer.Wait()
			return nil
		},
	}
}
