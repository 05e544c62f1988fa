package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-order-insights/internal/logger"
	"github.com/imrishuroy/go-order-insights/internal/orders"
)

// ClaimStore dedupes messages. *idempotency.Store satisfies it.
type ClaimStore interface {
	CreateIfNotExists(ctx context.Context, key, orderID, orderStatus string) (bool, error)
	MarkDone(ctx context.Context, key, result string) error
	MarkFailed(ctx context.Context, key, note string) error
}

// MetricsSink receives one set of gauge values. *aws.MetricsPublisher satisfies it.
type MetricsSink interface {
	Put(ctx context.Context, dimensions map[string]string, values map[string]float64) error
}

// Processor recomputes dashboard figures whenever an order changes status.
type Processor struct {
	source     orders.Source
	claims     ClaimStore
	metrics    MetricsSink
	aggregator *orders.Aggregator
}

// NewProcessor creates a worker processor with its dependencies injected.
func NewProcessor(source orders.Source, claims ClaimStore, metrics MetricsSink, aggregator *orders.Aggregator) *Processor {
	if aggregator == nil {
		aggregator = orders.NewAggregator()
	}
	return &Processor{
		source:     source,
		claims:     claims,
		metrics:    metrics,
		aggregator: aggregator,
	}
}

// Handle processes one SQS batch. Duplicate keys are skipped; the snapshot is
// loaded and published once for all claimed messages. A non-nil error makes
// Lambda redeliver the batch.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	logger.Log.Info("received SQS batch", zap.Int("messages", len(ev.Records)))

	var errs error
	var claimed []orders.StatusChangedMessage
	for _, rec := range ev.Records {
		msg, err := decodeMessage(rec)
		if err != nil {
			logger.Log.Error("malformed message, batch will be retried", zap.String("message_id", rec.MessageId), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}

		ok, err := p.claims.CreateIfNotExists(ctx, msg.IdempotencyKey, msg.OrderID, string(msg.Status))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("claim %s: %w", msg.IdempotencyKey, err))
			continue
		}
		if !ok {
			logger.Log.Info("duplicate status change skipped",
				zap.String("order_id", msg.OrderID),
				zap.String("idempotency_key", msg.IdempotencyKey),
				zap.String("correlation_id", msg.CorrelationID),
			)
			continue
		}
		claimed = append(claimed, msg)
	}

	if len(claimed) == 0 {
		return errs
	}

	result, err := p.refresh(ctx)
	if err != nil {
		logger.Log.Error("stats refresh failed", zap.Int("claimed", len(claimed)), zap.Error(err))
		errs = multierr.Append(errs, err)
		for _, msg := range claimed {
			errs = multierr.Append(errs, p.claims.MarkFailed(ctx, msg.IdempotencyKey, err.Error()))
		}
		return errs
	}

	for _, msg := range claimed {
		if err := p.claims.MarkDone(ctx, msg.IdempotencyKey, result); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("mark %s done: %w", msg.IdempotencyKey, err))
			continue
		}
		logger.Log.Info("status change processed",
			zap.String("order_id", msg.OrderID),
			zap.String("status", string(msg.Status)),
			zap.String("correlation_id", msg.CorrelationID),
		)
	}
	return errs
}

// refresh loads the snapshot, aggregates every range and publishes one
// metric set per range. Every range is attempted even if one fails.
func (p *Processor) refresh(ctx context.Context) (string, error) {
	snapshot, err := p.source.ListOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("list orders: %w", err)
	}

	all, err := p.aggregator.AggregateAll(snapshot)
	if err != nil {
		return "", fmt.Errorf("aggregate: %w", err)
	}

	var errs error
	for _, r := range orders.TimeRanges {
		st := all[r]
		err := p.metrics.Put(ctx, map[string]string{DimensionTimeRange: string(r)}, metricValues(st))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("publish %s metrics: %w", r, err))
		}
	}
	if errs != nil {
		return "", errs
	}

	parts := make([]string, 0, len(orders.TimeRanges))
	for _, r := range orders.TimeRanges {
		parts = append(parts, fmt.Sprintf("%s=%d", r, all[r].TotalOrders))
	}
	return fmt.Sprintf("snapshot=%d %s", len(snapshot), strings.Join(parts, " ")), nil
}

func metricValues(st orders.Stats) map[string]float64 {
	return map[string]float64{
		MetricTotalSales:        st.TotalSales,
		MetricTotalOrders:       float64(st.TotalOrders),
		MetricAverageOrderValue: st.AverageOrderValue,
		MetricPendingOrders:     float64(st.PendingOrders),
		MetricSalesGrowth:       st.SalesGrowth,
	}
}

func decodeMessage(rec events.SQSMessage) (orders.StatusChangedMessage, error) {
	var msg orders.StatusChangedMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return msg, fmt.Errorf("invalid message body: %w", err)
	}
	if msg.IdempotencyKey == "" {
		// fall back to the attribute the API also sets
		if attr, ok := rec.MessageAttributes["idempotency_key"]; ok && attr.StringValue != nil {
			msg.IdempotencyKey = *attr.StringValue
		}
	}
	if msg.IdempotencyKey == "" {
		return msg, fmt.Errorf("message %s has no idempotency key", rec.MessageId)
	}
	return msg, nil
}
