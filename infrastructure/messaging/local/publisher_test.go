package local

import (
	"context"
	"testing"
	"time"

	"storeadmin/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublisher_KeepsMostRecent(t *testing.T) {
	p := NewPublisher(2, zap.NewNop())
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"o1", "o2", "o3"} {
		require.NoError(t, p.Publish(context.Background(), events.NewOrderDeleted(id, "u1", at)))
	}

	recent := p.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "o2", recent[0].GetAggregateID())
	assert.Equal(t, "o3", recent[1].GetAggregateID())
}
