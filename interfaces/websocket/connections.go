// Package websocket tracks admin dashboard sockets opened through API
// Gateway and pushes "dashboard.stale" notices to them when catalog,
// order or user events arrive from EventBridge.
package websocket

import (
	"context"
	"fmt"
	"time"

	pkgerrors "storeadmin/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// connectionTTL bounds how long a socket record outlives a missed disconnect
const connectionTTL = 24 * time.Hour

// DynamoDBClient is the subset of the DynamoDB API the connection store uses
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Connection is one open dashboard socket
type Connection struct {
	PK           string    `dynamodbav:"PK"`
	SK           string    `dynamodbav:"SK"`
	ConnectionID string    `dynamodbav:"ConnectionID"`
	UserID       string    `dynamodbav:"UserID"`
	Endpoint     string    `dynamodbav:"Endpoint"`
	ConnectedAt  time.Time `dynamodbav:"ConnectedAt"`
	TTL          int64     `dynamodbav:"TTL"`
}

// ConnectionStore persists open sockets in the connections table
type ConnectionStore struct {
	client DynamoDBClient
	table  string
	clock  clockwork.Clock
	logger *zap.Logger
}

func NewConnectionStore(client DynamoDBClient, table string, clock clockwork.Clock, logger *zap.Logger) *ConnectionStore {
	return &ConnectionStore{client: client, table: table, clock: clock, logger: logger}
}

func connectionKey(connectionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "CONNECTION#" + connectionID},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

// Register records a newly opened socket
func (s *ConnectionStore) Register(ctx context.Context, connectionID, userID, endpoint string) (*Connection, error) {
	if connectionID == "" {
		return nil, pkgerrors.NewValidationError("connection ID is required")
	}

	now := s.clock.Now().UTC()
	conn := &Connection{
		PK:           "CONNECTION#" + connectionID,
		SK:           "METADATA",
		ConnectionID: connectionID,
		UserID:       userID,
		Endpoint:     endpoint,
		ConnectedAt:  now,
		TTL:          now.Add(connectionTTL).Unix(),
	}

	item, err := attributevalue.MarshalMap(conn)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to marshal connection").WithCause(err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return nil, pkgerrors.NewDatabaseError("put connection", err)
	}

	s.logger.Info("Dashboard connection registered",
		zap.String("connection_id", connectionID),
		zap.String("user_id", userID),
	)
	return conn, nil
}

// Remove forgets a socket. Removing an unknown socket is not an error.
func (s *ConnectionStore) Remove(ctx context.Context, connectionID string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       connectionKey(connectionID),
	}); err != nil {
		return pkgerrors.NewDatabaseError("delete connection", err)
	}
	return nil
}

// List returns every registered socket
func (s *ConnectionStore) List(ctx context.Context) ([]Connection, error) {
	var connections []Connection

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:        aws.String(s.table),
		FilterExpression: aws.String("begins_with(PK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: "CONNECTION#"},
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan connections", err)
		}

		var batch []Connection
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
		}
		connections = append(connections, batch...)
	}

	return connections, nil
}
