package dynamodb

import (
	"context"

	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const orderType = "ORDER"

// OrderRepository places every order in its owner's relation partition.
type OrderRepository struct {
	store *entityStore[entities.Order]
}

func NewOrderRepository(client Client, tables TableConfig, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{store: newEntityStore[entities.Order](client, tables, orderType, "order", logger)}
}

func userOrdersPK(userID string) string {
	return "USER#" + userID + "#ORDERS"
}

func (r *OrderRepository) Save(ctx context.Context, order *entities.Order) error {
	rel := &relation{pk: userOrdersPK(order.UserID), sk: creationKey(order.CreatedAt, order.ID)}
	return r.store.put(ctx, order.ID, r.store.wrap(order.ID, order.CreatedAt, rel, order))
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	return r.store.get(ctx, id)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(ctx, id)
}

func (r *OrderRepository) List(ctx context.Context) ([]*entities.Order, error) {
	return r.store.byCreation(ctx, creationQuery{})
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Order, error) {
	return r.store.byRelation(ctx, userOrdersPK(userID), nil, true)
}

// ListRefs projects only the id and owner of each order.
func (r *OrderRepository) ListRefs(ctx context.Context) ([]ports.OrderRef, error) {
	projection := expression.NamesList(expression.Name("Data.ID"), expression.Name("Data.UserID"))
	input, err := r.store.creationInput(creationQuery{projection: &projection})
	if err != nil {
		return nil, err
	}

	refs := []ports.OrderRef{}
	err = r.store.pages(ctx, input, func(items []map[string]types.AttributeValue) (bool, error) {
		for _, item := range items {
			var row struct {
				Data struct {
					ID     string
					UserID string
				}
			}
			if err := attributevalue.UnmarshalMap(item, &row); err != nil {
				return false, pkgerrors.NewInternalError("failed to unmarshal order ref").WithCause(err)
			}
			refs = append(refs, ports.OrderRef{ID: row.Data.ID, UserID: row.Data.UserID})
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *OrderRepository) Latest(ctx context.Context, limit int) ([]*entities.Order, error) {
	return r.store.byCreation(ctx, creationQuery{newestFirst: true, limit: limit})
}

func (r *OrderRepository) CreatedBetween(ctx context.Context, window ports.TimeRange) ([]*entities.Order, error) {
	return r.store.byCreation(ctx, creationQuery{window: &window})
}
