package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"storeadmin/application/analytics"
	"storeadmin/application/commands"
	"storeadmin/application/queries"
	querybus "storeadmin/application/queries/bus"
	"storeadmin/domain/core/entities"
	"storeadmin/infrastructure/config"
	"storeadmin/infrastructure/di"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContainer(t *testing.T) *di.Container {
	t.Helper()
	cfg := &config.Config{
		Environment:    "development",
		AWSRegion:      "us-west-2",
		StoreBackend:   config.BackendMemory,
		CacheBackend:   config.BackendMemory,
		MetricsBackend: config.BackendNone,
		LogLevel:       "error",
	}
	container, err := di.InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })
	return container
}

func shipping() entities.ShippingInfo {
	return entities.ShippingInfo{Address: "1 Main St", City: "Pune", State: "MH", Country: "IN", PinCode: "411001"}
}

func product(t *testing.T, c *di.Container, id string) *entities.Product {
	t.Helper()
	p, err := querybus.Ask[*entities.Product](context.Background(), c.QueryBus, queries.GetProductQuery{ProductID: id})
	require.NoError(t, err)
	return p
}

// TestOrderFlow drives a catalog through the buses and checks that cached
// reads follow every write.
func TestOrderFlow(t *testing.T) {
	ctx := context.Background()
	c := setupContainer(t)

	require.NoError(t, c.CommandBus.Send(ctx, commands.RegisterUserCommand{
		UserID: "u1", Name: "Asha", Email: "asha@example.com", Gender: "female",
	}))
	require.NoError(t, c.CommandBus.Send(ctx, commands.CreateProductCommand{
		ProductID: "p1", Name: "Shirt", Price: 20, Stock: 5, Category: "Apparel",
	}))
	require.NoError(t, c.CommandBus.Send(ctx, commands.CreateProductCommand{
		ProductID: "p2", Name: "Mug", Price: 10, Stock: 1, Category: "kitchen",
	}))

	t.Run("order reserves stock and refreshes cached reads", func(t *testing.T) {
		// Prime the caches
		before, err := querybus.Ask[*analytics.DashboardStats](ctx, c.QueryBus, queries.GetDashboardStatsQuery{})
		require.NoError(t, err)
		require.Equal(t, 0, before.Orders.ThisMonth.Count)
		assert.Equal(t, 5, product(t, c, "p1").Stock)

		err = c.CommandBus.Send(ctx, commands.PlaceOrderCommand{
			OrderID:      "o1",
			UserID:       "u1",
			ShippingInfo: shipping(),
			Items:        []commands.OrderLine{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}},
			Subtotal:     50, Total: 50,
		})
		require.NoError(t, err)

		assert.Equal(t, 3, product(t, c, "p1").Stock)
		assert.Equal(t, 0, product(t, c, "p2").Stock)

		after, err := querybus.Ask[*analytics.DashboardStats](ctx, c.QueryBus, queries.GetDashboardStatsQuery{})
		require.NoError(t, err)
		assert.Equal(t, 1, after.Orders.ThisMonth.Count)
		assert.Equal(t, 1, after.Categories["apparel"].TotalOrders)

		mine, err := querybus.Ask[[]*entities.Order](ctx, c.QueryBus, queries.GetMyOrdersQuery{UserID: "u1"})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "o1", mine[0].ID)
	})

	t.Run("short stock rejects the whole order", func(t *testing.T) {
		err := c.CommandBus.Send(ctx, commands.PlaceOrderCommand{
			OrderID:      "o2",
			UserID:       "u1",
			ShippingInfo: shipping(),
			Items:        []commands.OrderLine{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 1}},
			Subtotal:     30, Total: 30,
		})

		assert.True(t, pkgerrors.IsConflict(err))
		assert.Equal(t, 3, product(t, c, "p1").Stock)

		_, err = querybus.Ask[*entities.Order](ctx, c.QueryBus, queries.GetOrderQuery{OrderID: "o2"})
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("processing walks the order to delivered", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.NoError(t, c.CommandBus.Send(ctx, commands.ProcessOrderCommand{OrderID: "o1"}))
		}

		order, err := querybus.Ask[*entities.Order](ctx, c.QueryBus, queries.GetOrderQuery{OrderID: "o1"})
		require.NoError(t, err)
		assert.Equal(t, entities.OrderDelivered, order.Status)
	})
}

// TestConcurrentOrdersNeverOversell races more buyers than there is stock.
func TestConcurrentOrdersNeverOversell(t *testing.T) {
	ctx := context.Background()
	c := setupContainer(t)
	require.NoError(t, c.CommandBus.Send(ctx, commands.CreateProductCommand{
		ProductID: "p1", Name: "Lamp", Price: 15, Stock: 3, Category: "home",
	}))

	const buyers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := c.CommandBus.Send(ctx, commands.PlaceOrderCommand{
				OrderID:      fmt.Sprintf("o%d", i),
				UserID:       fmt.Sprintf("u%d", i),
				ShippingInfo: shipping(),
				Items:        []commands.OrderLine{{ProductID: "p1", Quantity: 1}},
				Subtotal:     15, Total: 15,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case pkgerrors.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, buyers-3, conflicts)
	assert.Equal(t, 0, product(t, c, "p1").Stock)
}
