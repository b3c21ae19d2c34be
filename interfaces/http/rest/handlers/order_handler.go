package handlers

import (
	"net/http"

	"storeadmin/application/commands"
	"storeadmin/application/commands/bus"
	"storeadmin/application/queries"
	querybus "storeadmin/application/queries/bus"
	"storeadmin/domain/core/entities"
	"storeadmin/domain/core/valueobjects"
	"storeadmin/pkg/common"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *OrderHandler {
	return &OrderHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errs:       errs,
		logger:     logger,
	}
}

// PlaceOrder handles POST /order/new
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var cmd commands.PlaceOrderCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	cmd.OrderID = valueobjects.NewEntityID()

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.logger.Debug("Order accepted", zap.String("order_id", cmd.OrderID), zap.Int("lines", len(cmd.Items)))
	common.RespondJSON(w, http.StatusCreated, CreatedResponse{ID: cmd.OrderID})
}

// MyOrders handles GET /order/my?id=<user>
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredParam(r, "id")
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	respondQuery[[]*entities.Order](w, r, h.queryBus, h.errs, queries.GetMyOrdersQuery{UserID: userID})
}

func (h *OrderHandler) AllOrders(w http.ResponseWriter, r *http.Request) {
	respondQuery[[]*entities.Order](w, r, h.queryBus, h.errs, queries.GetAllOrdersQuery{})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	query := queries.GetOrderQuery{OrderID: chi.URLParam(r, "orderID")}
	respondQuery[*entities.Order](w, r, h.queryBus, h.errs, query)
}

// ProcessOrder handles PUT /order/{orderID}, advancing fulfillment one step
func (h *OrderHandler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	cmd := commands.ProcessOrderCommand{OrderID: chi.URLParam(r, "orderID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Order processed successfully")
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteOrderCommand{OrderID: chi.URLParam(r, "orderID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Order deleted successfully")
}
