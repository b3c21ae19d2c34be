// Package main implements the dashboard WebSocket $connect and $disconnect
// Lambda handler. Admin dashboards open a socket so they can be told when
// their cached reports have gone stale.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"storeadmin/infrastructure/config"
	"storeadmin/interfaces/websocket"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var (
	connections *websocket.ConnectionStore
	logger      *zap.Logger
)

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	connections = websocket.NewConnectionStore(
		dynamodb.NewFromConfig(awsCfg),
		cfg.ConnectionsTable,
		clockwork.NewRealClock(),
		logger,
	)
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	rc := request.RequestContext

	if rc.RouteKey == "$disconnect" {
		if err := connections.Remove(ctx, rc.ConnectionID); err != nil {
			logger.Warn("Failed to remove connection", zap.String("connection_id", rc.ConnectionID), zap.Error(err))
		}
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
	}

	// API Gateway's authorizer has already vetted the caller
	userID := request.QueryStringParameters["id"]
	if userID == "" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Body:       `{"error":"id query parameter is required"}`,
		}, nil
	}

	endpoint := fmt.Sprintf("%s/%s", rc.DomainName, rc.Stage)
	conn, err := connections.Register(ctx, rc.ConnectionID, userID, endpoint)
	if err != nil {
		logger.Error("Failed to register connection", zap.String("connection_id", rc.ConnectionID), zap.Error(err))
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error":"internal server error"}`,
		}, nil
	}

	body, _ := json.Marshal(map[string]interface{}{
		"type":         "connection_established",
		"connectionId": conn.ConnectionID,
		"timestamp":    conn.ConnectedAt.Unix(),
	})
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
