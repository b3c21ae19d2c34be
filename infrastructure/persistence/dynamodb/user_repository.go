package dynamodb

import (
	"context"

	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"

	"go.uber.org/zap"
)

const userType = "USER"

type UserRepository struct {
	store *entityStore[entities.User]
}

func NewUserRepository(client Client, tables TableConfig, logger *zap.Logger) *UserRepository {
	return &UserRepository{store: newEntityStore[entities.User](client, tables, userType, "user", logger)}
}

func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	return r.store.put(ctx, user.ID, r.store.wrap(user.ID, user.CreatedAt, nil, user))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.store.get(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(ctx, id)
}

func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	return r.store.byCreation(ctx, creationQuery{})
}

func (r *UserRepository) CreatedBetween(ctx context.Context, window ports.TimeRange) ([]*entities.User, error) {
	return r.store.byCreation(ctx, creationQuery{window: &window})
}
