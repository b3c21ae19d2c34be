package handlers

import (
	"context"

	"storeadmin/application/cache"
	"storeadmin/application/ports"
	"storeadmin/application/queries"
	"storeadmin/domain/core/entities"
)

// UserHandler serves user reads. Only the admin listing is cached.
type UserHandler struct {
	users    ports.UserRepository
	accessor *cache.Accessor
}

func NewUserHandler(users ports.UserRepository, accessor *cache.Accessor) *UserHandler {
	return &UserHandler{users: users, accessor: accessor}
}

func (h *UserHandler) AllUsers(ctx context.Context, _ queries.GetAllUsersQuery) ([]*entities.User, error) {
	return cache.Through(ctx, h.accessor, cache.AdminUsersKey, 0, h.users.List)
}

func (h *UserHandler) User(ctx context.Context, q queries.GetUserQuery) (*entities.User, error) {
	return h.users.GetByID(ctx, q.UserID)
}
