package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// StockMetricsProvider reports catalog state for periodic gauge collection
// without the telemetry layer importing the catalog.
type StockMetricsProvider interface {
	CountSoldOut(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // default 5 minutes
	StockProvider   StockMetricsProvider
}

// BusinessMetrics tracks order flow and catalog health.
type BusinessMetrics struct {
	logger *zap.Logger

	orderPlacedTotal       *Counter
	orderCancelledTotal    *Counter
	orderAmountTotal       *Counter
	itemsSoldTotal         *Counter
	deliveryCompletedTotal *Counter
	itemsSoldOut           *Gauge

	stockProvider   StockMetricsProvider
	collectInterval time.Duration
	stopChan        chan struct{}
	stopOnce        sync.Once
	collectOnce     sync.Once
}

// NewBusinessMetrics creates the business instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.CollectInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	bm := &BusinessMetrics{
		logger:          logger,
		stockProvider:   cfg.StockProvider,
		collectInterval: interval,
		stopChan:        make(chan struct{}),
	}

	counters := []struct {
		target           **Counter
		name, desc, unit string
	}{
		{&bm.orderPlacedTotal, "jpashop_order_placed_total", "Total number of orders placed", "{orders}"},
		{&bm.orderCancelledTotal, "jpashop_order_cancelled_total", "Total number of orders cancelled", "{orders}"},
		{&bm.orderAmountTotal, "jpashop_order_amount_total", "Total amount of placed orders", "{won}"},
		{&bm.itemsSoldTotal, "jpashop_items_sold_total", "Total units sold", "{units}"},
		{&bm.deliveryCompletedTotal, "jpashop_delivery_completed_total", "Total number of completed deliveries", "{deliveries}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	bm.itemsSoldOut, err = NewGauge(cfg.Meter, "jpashop_items_sold_out", "Number of items with zero stock", "{items}")
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderPlaced counts an order, its amount and its units
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, amount decimal.Decimal, units int64) {
	bm.orderPlacedTotal.Inc(ctx)
	bm.orderAmountTotal.Add(ctx, amount.IntPart())
	bm.itemsSoldTotal.Add(ctx, units)
}

// RecordOrderCancelled counts a cancellation
func (bm *BusinessMetrics) RecordOrderCancelled(ctx context.Context) {
	bm.orderCancelledTotal.Inc(ctx)
}

// RecordDeliveryCompleted counts a completed delivery
func (bm *BusinessMetrics) RecordDeliveryCompleted(ctx context.Context) {
	bm.deliveryCompletedTotal.Inc(ctx)
}

// RecordSoldOutCount sets the sold-out gauge
func (bm *BusinessMetrics) RecordSoldOutCount(ctx context.Context, count int64) {
	bm.itemsSoldOut.Record(ctx, count)
}

// StartPeriodicCollection polls the stock provider in the background until
// Stop is called or ctx ends. Later calls are no-ops.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context) {
	bm.collectOnce.Do(func() {
		go bm.runPeriodicCollection(ctx)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context) {
	ticker := time.NewTicker(bm.collectInterval)
	defer ticker.Stop()

	bm.collectStockMetrics(ctx)
	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collectStockMetrics(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectStockMetrics(ctx context.Context) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}
	count, err := bm.stockProvider.CountSoldOut(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count sold-out items", zap.Error(err))
		return
	}
	bm.RecordSoldOutCount(ctx, count)
}

// Stop stops the periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}
