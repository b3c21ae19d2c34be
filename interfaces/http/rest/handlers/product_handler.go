package handlers

import (
	"net/http"

	"storeadmin/application/commands"
	"storeadmin/application/commands/bus"
	"storeadmin/application/ports"
	"storeadmin/application/queries"
	querybus "storeadmin/application/queries/bus"
	"storeadmin/domain/core/entities"
	"storeadmin/domain/core/valueobjects"
	"storeadmin/pkg/common"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles catalog and review HTTP requests
type ProductHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errs       *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ProductHandler {
	return &ProductHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errs:       errs,
		logger:     logger,
	}
}

// CreateProduct handles POST /product/new
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateProductCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	if cmd.ProductID == "" {
		cmd.ProductID = valueobjects.NewEntityID()
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, CreatedResponse{ID: cmd.ProductID})
}

// UpdateProduct handles PUT /product/{productID}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateProductCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	cmd.ProductID = chi.URLParam(r, "productID")

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Product updated successfully")
}

// DeleteProduct handles DELETE /product/{productID}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	cmd := commands.DeleteProductCommand{ProductID: chi.URLParam(r, "productID")}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Product deleted successfully")
}

func (h *ProductHandler) LatestProducts(w http.ResponseWriter, r *http.Request) {
	respondQuery[[]*entities.Product](w, r, h.queryBus, h.errs, queries.GetLatestProductsQuery{})
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondQuery[[]string](w, r, h.queryBus, h.errs, queries.GetCategoriesQuery{})
}

func (h *ProductHandler) AdminProducts(w http.ResponseWriter, r *http.Request) {
	respondQuery[[]*entities.Product](w, r, h.queryBus, h.errs, queries.GetAdminProductsQuery{})
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	query := queries.GetProductQuery{ProductID: chi.URLParam(r, "productID")}
	respondQuery[*entities.Product](w, r, h.queryBus, h.errs, query)
}

// SearchProducts handles GET /product/search?search=&category=&price=&sort=&page=
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	maxPrice, err := floatParam(r, "price")
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	page, err := intParam(r, "page")
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	params := r.URL.Query()
	query := queries.SearchProductsQuery{
		Name:     params.Get("search"),
		Category: params.Get("category"),
		MaxPrice: maxPrice,
		Sort:     ports.SortOrder(params.Get("sort")),
		Page:     page,
	}
	respondQuery[*queries.SearchProductsResult](w, r, h.queryBus, h.errs, query)
}

// ListReviews handles GET /product/allreview/{productID}
func (h *ProductHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	query := queries.GetProductReviewsQuery{ProductID: chi.URLParam(r, "productID")}
	respondQuery[[]*entities.Review](w, r, h.queryBus, h.errs, query)
}

// SaveReview handles POST /product/review/new/{productID}?id=<user>
func (h *ProductHandler) SaveReview(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredParam(r, "id")
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var cmd commands.SaveReviewCommand
	if err := decodeBody(w, r, &cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	cmd.ReviewID = valueobjects.NewEntityID()
	cmd.ProductID = chi.URLParam(r, "productID")
	cmd.UserID = userID

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Review saved")
}

// DeleteReview handles DELETE /product/deleteReview/{reviewID}?id=<user>
func (h *ProductHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredParam(r, "id")
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	cmd := commands.DeleteReviewCommand{ReviewID: chi.URLParam(r, "reviewID"), UserID: userID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Review deleted")
}
