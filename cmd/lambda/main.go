package main

import (
	"context"
	"log"
	"time"

	"storeadmin/infrastructure/config"
	"storeadmin/infrastructure/di"
	"storeadmin/interfaces/http/rest"
	"storeadmin/pkg/ratelimit"
	"storeadmin/pkg/observability"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"
)

const limiterPruneInterval = 5 * time.Minute

// Global variables for Lambda lifecycle management
var (
	// chiLambda wraps the Chi router for AWS Lambda integration
	chiLambda *chiadapter.ChiLambdaV2

	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

// init runs during cold start
func init() {
	coldStartTime = time.Now()
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimitPerMinute > 0 {
		keyed := ratelimit.NewKeyedLimiter(cfg.RateLimitPerMinute, time.Minute, container.Clock)
		go keyed.Run(ctx, limiterPruneInterval)
		limiter = keyed
	}

	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		container.Cache,
		container.Metrics,
		container.Logger,
		rest.Options{EnableCORS: cfg.EnableCORS, RateLimiter: limiter},
	)
	chiLambda = chiadapter.NewV2(router.Setup())

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(coldStartTime)),
		zap.String("cache_backend", cfg.CacheBackend),
	)
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	} else {
		resp.Headers["X-Cold-Start"] = "false"
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}

	if resp.StatusCode >= 500 {
		container.Logger.Error("Lambda error response",
			zap.String("method", req.RequestContext.HTTP.Method),
			zap.String("path", req.RequestContext.HTTP.Path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("request_id", req.RequestContext.RequestID),
		)
	}

	// Buffered CloudWatch datapoints would be lost if the sandbox froze
	if cw, ok := container.Metrics.(*observability.CloudWatchMetrics); ok {
		if flushErr := cw.Flush(ctx); flushErr != nil {
			container.Logger.Warn("Failed to flush metrics", zap.Error(flushErr))
		}
	}

	return resp, err
}

func main() {
	lambda.Start(Handler)
}
