package handlers

import (
	"context"

	"storeadmin/application/cache"
	"storeadmin/application/commands"
	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"
	"storeadmin/domain/events"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var adminSignal = cache.Signal{Admin: true}

// UserHandler handles user commands
type UserHandler struct {
	users       ports.UserRepository
	invalidator Invalidator
	publisher   ports.EventPublisher
	clock       clockwork.Clock
	logger      *zap.Logger
}

func NewUserHandler(
	users ports.UserRepository,
	invalidator Invalidator,
	publisher ports.EventPublisher,
	clock clockwork.Clock,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		users:       users,
		invalidator: invalidator,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
	}
}

// RegisterUser stores a new user. An already registered id is a no-op.
func (h *UserHandler) RegisterUser(ctx context.Context, cmd commands.RegisterUserCommand) error {
	_, err := h.users.GetByID(ctx, cmd.UserID)
	if err == nil {
		h.logger.Debug("User already registered", zap.String("user_id", cmd.UserID))
		return nil
	}
	if !pkgerrors.IsNotFound(err) {
		return err
	}

	gender, err := entities.ParseGender(cmd.Gender)
	if err != nil {
		return err
	}
	role, err := entities.ParseRole(cmd.Role)
	if err != nil {
		return err
	}

	now := h.clock.Now()
	user, err := entities.NewUser(cmd.UserID, cmd.Name, cmd.Email, cmd.Photo, gender, role, cmd.DOB, now)
	if err != nil {
		return err
	}
	if err := h.users.Save(ctx, user); err != nil {
		return err
	}
	if err := h.invalidator.Invalidate(ctx, adminSignal); err != nil {
		return err
	}

	h.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	publish(ctx, h.publisher, h.logger, events.NewUserChanged(events.TypeUserRegistered, user.ID, string(user.Role), now))
	return nil
}

func (h *UserHandler) DeleteUser(ctx context.Context, cmd commands.DeleteUserCommand) error {
	user, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := h.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	if err := h.invalidator.Invalidate(ctx, adminSignal); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.logger, events.NewUserChanged(events.TypeUserDeleted, user.ID, string(user.Role), h.clock.Now()))
	return nil
}
