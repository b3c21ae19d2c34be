// Package main implements the dashboard broadcast Lambda. An EventBridge
// rule on the storeadmin bus invokes it for every domain event; each
// registered dashboard socket receives a "dashboard.stale" frame.
package main

import (
	"context"
	"log"

	"storeadmin/infrastructure/config"
	"storeadmin/interfaces/websocket"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var broadcaster *websocket.Broadcaster

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	clock := clockwork.NewRealClock()
	connections := websocket.NewConnectionStore(dynamodb.NewFromConfig(awsCfg), cfg.ConnectionsTable, clock, logger)

	clients := websocket.EndpointClientFactory(awsCfg)
	if cfg.WebSocketEndpoint != "" {
		// A custom domain fronts every stage; ignore the per-connection endpoint
		custom := clients(cfg.WebSocketEndpoint)
		clients = func(string) websocket.PostClient { return custom }
	}

	broadcaster = websocket.NewBroadcaster(connections, clients, clock, logger)
}

func handler(ctx context.Context, event events.CloudWatchEvent) error {
	_, err := broadcaster.HandleEvent(ctx, event)
	return err
}

func main() {
	lambda.Start(handler)
}
