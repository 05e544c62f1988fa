package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-order-insights/internal/aws"
	"github.com/imrishuroy/go-order-insights/internal/config"
	"github.com/imrishuroy/go-order-insights/internal/gateway"
	"github.com/imrishuroy/go-order-insights/internal/idempotency"
	"github.com/imrishuroy/go-order-insights/internal/logger"
	"github.com/imrishuroy/go-order-insights/internal/orders"
)

func newSource(cfg config.Config, clients *aws.AWSClients) orders.Source {
	if cfg.OrderSource == config.SourceDynamoDB {
		return orders.NewStore(clients.DynamoDB, cfg.OrdersTable)
	}
	return gateway.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamToken, cfg.UpstreamTimeout)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Log.Sync() }()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Log.Fatal("failed to init aws clients", zap.Error(err))
	}

	p := NewProcessor(
		newSource(cfg, clients),
		idempotency.NewStore(clients.DynamoDB, cfg.IdempotencyTable, cfg.IdempotencyTTL),
		aws.NewMetricsPublisher(clients.CloudWatch, cfg.MetricsNamespace),
		orders.NewAggregator(),
	)

	// RUN_LOCAL=true runs a single simulated event built from LOCAL_SQS_BODY.
	if cfg.RunLocal {
		body := localBody()
		event := events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: body}},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			logger.Log.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(p.Handle)
}
