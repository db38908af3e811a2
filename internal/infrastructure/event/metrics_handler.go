package event

import (
	"context"

	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderMetrics records order lifecycle counters
type OrderMetrics interface {
	RecordOrderPlaced(ctx context.Context, amount decimal.Decimal, units int64)
	RecordOrderCancelled(ctx context.Context)
	RecordDeliveryCompleted(ctx context.Context)
}

// MetricsHandler feeds order events into OrderMetrics
type MetricsHandler struct {
	metrics OrderMetrics
	logger  *zap.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics OrderMetrics, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderPlaced,
		ordering.EventTypeOrderCancelled,
		ordering.EventTypeDeliveryCompleted,
	}
}

// Handle records the event. Unknown payload types are ignored.
func (h *MetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderPlacedEvent:
		var units int64
		for _, line := range e.Lines {
			units += int64(line.Count)
		}
		h.metrics.RecordOrderPlaced(ctx, e.TotalPrice, units)
	case *ordering.OrderCancelledEvent:
		h.metrics.RecordOrderCancelled(ctx)
	case *ordering.DeliveryCompletedEvent:
		h.metrics.RecordDeliveryCompleted(ctx)
	default:
		h.logger.Debug("Metrics handler ignoring event",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}
