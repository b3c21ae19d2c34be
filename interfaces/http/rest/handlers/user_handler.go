package handlers

import (
	"net/http"

	"storeadmin/application/commands"
	"storeadmin/application/commands/bus"
	"storeadmin/application/queries"
	querybus "storeadmin/application/queries/bus"
	"storeadmin/domain/core/entities"
	"storeadmin/pkg/common"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles user HTTP requests
type UserHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errs:       errs,
		logger:     logger,
	}
}

// RegisterUser handles POST /user/new. The id comes from the identity
// provider; registering it again returns the stored user.
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RegisterUserCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	user, err := querybus.Ask[*entities.User](r.Context(), h.queryBus, queries.GetUserQuery{UserID: cmd.UserID})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	respondQuery[[]*entities.User](w, r, h.queryBus, h.errs, queries.GetAllUsersQuery{})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	query := queries.GetUserQuery{UserID: chi.URLParam(r, "userID")}
	respondQuery[*entities.User](w, r, h.queryBus, h.errs, query)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteUserCommand{UserID: chi.URLParam(r, "userID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "User deleted successfully")
}
