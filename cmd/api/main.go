package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-order-insights/internal/aws"
	"github.com/imrishuroy/go-order-insights/internal/config"
	"github.com/imrishuroy/go-order-insights/internal/gateway"
	"github.com/imrishuroy/go-order-insights/internal/handlers"
	"github.com/imrishuroy/go-order-insights/internal/logger"
	"github.com/imrishuroy/go-order-insights/internal/orders"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterAdminRoutes(r, cfg)

	return r
}

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

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Log.Fatal("failed to init aws clients", zap.Error(err))
	}

	hcfg := handlers.HandlerConfig{
		Source:     newSource(cfg, clients),
		Aggregator: orders.NewAggregator(),
	}
	// without a queue, status changes are not forwarded to the stats worker
	if cfg.QueueURL != "" {
		hcfg.Publisher = aws.NewPublisher(clients.SQS, cfg.QueueURL)
	}

	r := setupRouter(hcfg)
	logger.Log.Info("admin api configured", zap.String("order_source", cfg.OrderSource))

	if cfg.RunLocal {
		logger.Log.Info("running local server", zap.String("addr", cfg.Addr))
		if err := r.Run(cfg.Addr); err != nil {
			logger.Log.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
