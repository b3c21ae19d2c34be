package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// StaleMessageType tells a dashboard to refetch its reports
const StaleMessageType = "dashboard.stale"

// PostClient is the subset of the API Gateway management API used to push
type PostClient interface {
	PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, optFns ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error)
}

// ClientFactory returns a management client for a connection's endpoint
type ClientFactory func(endpoint string) PostClient

// Message is the frame written to every socket
type Message struct {
	Type      string          `json:"type"`
	Event     string          `json:"event"`
	Timestamp int64           `json:"timestamp"`
	Detail    json.RawMessage `json:"detail,omitempty"`
}

// BroadcastResult counts per-socket outcomes
type BroadcastResult struct {
	Sent    int
	Stale   int
	Failed  int
	Skipped bool
}

// Broadcaster pushes stale notices to every registered dashboard socket
type Broadcaster struct {
	connections *ConnectionStore
	clients     ClientFactory
	clock       clockwork.Clock
	logger      *zap.Logger
}

func NewBroadcaster(connections *ConnectionStore, clients ClientFactory, clock clockwork.Clock, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{connections: connections, clients: clients, clock: clock, logger: logger}
}

// HandleEvent turns one EventBridge delivery into a broadcast
func (b *Broadcaster) HandleEvent(ctx context.Context, event events.CloudWatchEvent) (BroadcastResult, error) {
	msg := Message{
		Type:      StaleMessageType,
		Event:     event.DetailType,
		Timestamp: b.clock.Now().Unix(),
		Detail:    event.Detail,
	}
	return b.Broadcast(ctx, msg)
}

// Broadcast sends msg to every socket. Sockets API Gateway reports as gone
// are removed. It fails only when no socket could be reached.
func (b *Broadcaster) Broadcast(ctx context.Context, msg Message) (BroadcastResult, error) {
	var result BroadcastResult

	payload, err := json.Marshal(msg)
	if err != nil {
		return result, fmt.Errorf("failed to marshal message: %w", err)
	}

	connections, err := b.connections.List(ctx)
	if err != nil {
		return result, err
	}
	if len(connections) == 0 {
		result.Skipped = true
		b.logger.Debug("Broadcast skipped, no dashboard connections", zap.String("event", msg.Event))
		return result, nil
	}

	byEndpoint := make(map[string][]string)
	for _, c := range connections {
		byEndpoint[c.Endpoint] = append(byEndpoint[c.Endpoint], c.ConnectionID)
	}

	for endpoint, ids := range byEndpoint {
		client := b.clients(endpoint)
		for _, id := range ids {
			_, err := client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
				ConnectionId: aws.String(id),
				Data:         payload,
			})
			var gone *apigwtypes.GoneException
			switch {
			case err == nil:
				result.Sent++
			case errors.As(err, &gone):
				result.Stale++
				if err := b.connections.Remove(ctx, id); err != nil {
					b.logger.Warn("Failed to remove stale connection", zap.String("connection_id", id), zap.Error(err))
				}
			default:
				result.Failed++
				b.logger.Warn("Failed to post to connection", zap.String("connection_id", id), zap.Error(err))
			}
		}
	}

	b.logger.Info("Broadcast complete",
		zap.String("event", msg.Event),
		zap.Int("sent", result.Sent),
		zap.Int("stale", result.Stale),
		zap.Int("failed", result.Failed),
	)

	if result.Failed > 0 && result.Sent == 0 {
		return result, fmt.Errorf("all %d message sends failed", result.Failed)
	}
	return result, nil
}

// EndpointClientFactory builds management clients from a base AWS config
func EndpointClientFactory(cfg aws.Config) ClientFactory {
	return func(endpoint string) PostClient {
		return apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
			o.BaseEndpoint = aws.String("https://" + endpoint)
		})
	}
}
