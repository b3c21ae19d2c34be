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

// CouponHandler handles coupon HTTP requests
type CouponHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *CouponHandler {
	return &CouponHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errs:       errs,
		logger:     logger,
	}
}

// CreateCoupon handles POST /coupon/new
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateCouponCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	cmd.CouponID = valueobjects.NewEntityID()

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, CreatedResponse{ID: cmd.CouponID})
}

// ApplyCoupon handles GET /coupon/discount?coupon=<code>
func (h *CouponHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	code, err := requiredParam(r, "coupon")
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	respondQuery[*queries.DiscountResult](w, r, h.queryBus, h.errs, queries.ApplyCouponQuery{Code: code})
}

func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	respondQuery[[]*entities.Coupon](w, r, h.queryBus, h.errs, queries.ListCouponsQuery{})
}

func (h *CouponHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	query := queries.GetCouponQuery{CouponID: chi.URLParam(r, "couponID")}
	respondQuery[*entities.Coupon](w, r, h.queryBus, h.errs, query)
}

// UpdateCoupon handles PUT /coupon/{couponID}; every field is replaced
func (h *CouponHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateCouponCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	cmd.CouponID = chi.URLParam(r, "couponID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Coupon updated successfully")
}

func (h *CouponHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteCouponCommand{CouponID: chi.URLParam(r, "couponID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Coupon deleted successfully")
}
