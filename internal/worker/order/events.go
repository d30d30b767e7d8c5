package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tablewise/tablewise/internal/config"
	"github.com/tablewise/tablewise/internal/messaging"
	ordersvc "github.com/tablewise/tablewise/internal/service/order"
	"github.com/tablewise/tablewise/internal/worker"
)

var workerTracer = otel.Tracer("github.com/tablewise/tablewise/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderEventsHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderEventsHandler consumes order lifecycle events and projects them to
// the kitchen display log. Events it does not recognise are acknowledged and
// skipped so a topic shared with other producers never wedges the worker.
func NewOrderEventsHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(attribute.String("event.type", event.Type))

		switch event.Type {
		case "order.created":
			logger.Info("kitchen display: new order",
				zap.Int64("id", event.ID),
				zap.String("number", event.Number),
				zap.String("table", event.TableNumber),
				zap.Float64("total", event.TotalAmount),
			)
		case "order.status_changed":
			logger.Info("kitchen display: order moved",
				zap.Int64("id", event.ID),
				zap.String("number", event.Number),
				zap.String("status", string(event.Status)),
			)
		default:
			logger.Debug("skipping unrecognised event", zap.String("type", event.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
