package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDynamoDB struct {
	mock.Mock
}

func (m *mockDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	return &dynamodb.PutItemOutput{}, args.Error(0)
}

func (m *mockDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, params)
	return &dynamodb.DeleteItemOutput{}, args.Error(0)
}

func (m *mockDynamoDB) Scan(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*dynamodb.ScanOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) PostToConnection(ctx context.Context, params *apigatewaymanagementapi.PostToConnectionInput, _ ...func(*apigatewaymanagementapi.Options)) (*apigatewaymanagementapi.PostToConnectionOutput, error) {
	args := m.Called(*params.ConnectionId)
	return &apigatewaymanagementapi.PostToConnectionOutput{}, args.Error(0)
}

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func scanOutput(t *testing.T, conns ...Connection) *dynamodb.ScanOutput {
	t.Helper()
	items := make([]map[string]types.AttributeValue, 0, len(conns))
	for _, c := range conns {
		item, err := attributevalue.MarshalMap(c)
		require.NoError(t, err)
		items = append(items, item)
	}
	return &dynamodb.ScanOutput{Items: items}
}

func TestConnectionStore_Register(t *testing.T) {
	// Arrange
	client := new(mockDynamoDB)
	var put *dynamodb.PutItemInput
	client.On("PutItem", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		put = args.Get(1).(*dynamodb.PutItemInput)
	}).Return(nil)
	store := NewConnectionStore(client, "connections", clockwork.NewFakeClockAt(testNow), zap.NewNop())

	// Act
	conn, err := store.Register(context.Background(), "c1", "admin-1", "abc.execute-api/prod")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "connections", *put.TableName)
	assert.Equal(t, "CONNECTION#c1", conn.PK)
	assert.Equal(t, testNow.Add(24*time.Hour).Unix(), conn.TTL)

	var stored Connection
	require.NoError(t, attributevalue.UnmarshalMap(put.Item, &stored))
	assert.Equal(t, "admin-1", stored.UserID)
	assert.Equal(t, "abc.execute-api/prod", stored.Endpoint)
}

func TestConnectionStore_RegisterRequiresID(t *testing.T) {
	store := NewConnectionStore(new(mockDynamoDB), "connections", clockwork.NewFakeClockAt(testNow), zap.NewNop())

	_, err := store.Register(context.Background(), "", "admin-1", "endpoint")

	assert.Error(t, err)
}

func TestBroadcaster_RemovesGoneConnections(t *testing.T) {
	// Arrange
	client := new(mockDynamoDB)
	client.On("Scan", mock.Anything, mock.Anything).Return(scanOutput(t,
		Connection{PK: "CONNECTION#live", SK: "METADATA", ConnectionID: "live", Endpoint: "e1"},
		Connection{PK: "CONNECTION#gone", SK: "METADATA", ConnectionID: "gone", Endpoint: "e1"},
	), nil)
	client.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		pk := in.Key["PK"].(*types.AttributeValueMemberS)
		return pk.Value == "CONNECTION#gone"
	})).Return(nil).Once()

	poster := new(mockPoster)
	poster.On("PostToConnection", "live").Return(nil)
	poster.On("PostToConnection", "gone").Return(&apigwtypes.GoneException{})

	clock := clockwork.NewFakeClockAt(testNow)
	store := NewConnectionStore(client, "connections", clock, zap.NewNop())
	broadcaster := NewBroadcaster(store, func(string) PostClient { return poster }, clock, zap.NewNop())

	// Act
	result, err := broadcaster.HandleEvent(context.Background(), events.CloudWatchEvent{
		DetailType: "order.placed",
		Detail:     json.RawMessage(`{"order_id":"o1"}`),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Stale)
	client.AssertExpectations(t)
	poster.AssertExpectations(t)
}

func TestBroadcaster_FailsWhenNothingSent(t *testing.T) {
	client := new(mockDynamoDB)
	client.On("Scan", mock.Anything, mock.Anything).Return(scanOutput(t,
		Connection{PK: "CONNECTION#c1", SK: "METADATA", ConnectionID: "c1", Endpoint: "e1"},
	), nil)
	poster := new(mockPoster)
	poster.On("PostToConnection", "c1").Return(errors.New("throttled"))

	clock := clockwork.NewFakeClockAt(testNow)
	broadcaster := NewBroadcaster(NewConnectionStore(client, "connections", clock, zap.NewNop()),
		func(string) PostClient { return poster }, clock, zap.NewNop())

	result, err := broadcaster.Broadcast(context.Background(), Message{Type: StaleMessageType, Event: "product.updated"})

	assert.Error(t, err)
	assert.Equal(t, 1, result.Failed)
}

func TestBroadcaster_NoConnections(t *testing.T) {
	client := new(mockDynamoDB)
	client.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{}, nil)

	clock := clockwork.NewFakeClockAt(testNow)
	broadcaster := NewBroadcaster(NewConnectionStore(client, "connections", clock, zap.NewNop()),
		func(string) PostClient { t.Fatal("no client expected"); return nil }, clock, zap.NewNop())

	result, err := broadcaster.Broadcast(context.Background(), Message{Type: StaleMessageType})

	require.NoError(t, err)
	assert.True(t, result.Skipped)
}
