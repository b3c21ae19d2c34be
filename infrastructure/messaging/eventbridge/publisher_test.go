package eventbridge

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storeadmin/domain/events"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventbridge.PutEventsOutput), args.Error(1)
}

var at = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestPublisher_PublishSetsDetailType(t *testing.T) {
	// Arrange
	client := new(mockClient)
	publisher := NewPublisher(client, "store-bus", zap.NewNop())
	event := events.NewOrderPlaced("o1", "u1", 99.5, 2, at)

	var captured *eventbridge.PutEventsInput
	client.On("PutEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*eventbridge.PutEventsInput) }).
		Return(&eventbridge.PutEventsOutput{}, nil)

	// Act
	err := publisher.Publish(context.Background(), event)

	// Assert
	require.NoError(t, err)
	require.Len(t, captured.Entries, 1)
	entry := captured.Entries[0]
	assert.Equal(t, "store-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, events.SourceStoreAdmin, aws.ToString(entry.Source))
	assert.Equal(t, events.TypeOrderPlaced, aws.ToString(entry.DetailType))
	assert.Contains(t, aws.ToString(entry.Detail), `"order_id":"o1"`)
	assert.True(t, at.Equal(aws.ToTime(entry.Time)))
}

func TestPublisher_BatchesByTen(t *testing.T) {
	client := new(mockClient)
	publisher := NewPublisher(client, "store-bus", zap.NewNop())
	batch := make([]events.DomainEvent, 0, 23)
	for i := 0; i < 23; i++ {
		batch = append(batch, events.NewOrderDeleted(fmt.Sprintf("o%d", i), "u1", at))
	}

	var sizes []int
	client.On("PutEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sizes = append(sizes, len(args.Get(1).(*eventbridge.PutEventsInput).Entries)) }).
		Return(&eventbridge.PutEventsOutput{}, nil)

	require.NoError(t, publisher.PublishBatch(context.Background(), batch))
	assert.Equal(t, []int{10, 10, 3}, sizes)
}

func TestPublisher_Failures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		client := new(mockClient)
		client.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("network"))

		err := NewPublisher(client, "bus", zap.NewNop()).Publish(context.Background(), events.NewOrderDeleted("o1", "u1", at))

		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	})

	t.Run("rejected entries", func(t *testing.T) {
		client := new(mockClient)
		client.On("PutEvents", mock.Anything, mock.Anything).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("ThrottlingException")}},
		}, nil)

		err := NewPublisher(client, "bus", zap.NewNop()).Publish(context.Background(), events.NewOrderDeleted("o1", "u1", at))

		require.Error(t, err)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	})
}
