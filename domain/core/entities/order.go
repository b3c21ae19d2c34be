package entities

import (
	"time"

	"storeadmin/domain/core/valueobjects"
	pkgerrors "storeadmin/pkg/errors"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
)

// Next returns the status that follows s. Delivered is terminal and maps to itself.
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case OrderProcessing:
		return OrderShipped
	case OrderShipped:
		return OrderDelivered
	default:
		return OrderDelivered
	}
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderProcessing, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	PinCode string `json:"pinCode"`
}

// OrderItem is a line item snapshot taken when the order was placed.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category"`
	Photo     string  `json:"photo,omitempty"`
}

// Order is a placed customer order.
type Order struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	ShippingInfo    ShippingInfo `json:"shippingInfo"`
	Items           []OrderItem  `json:"orderItems"`
	Subtotal        float64      `json:"subtotal"`
	Tax             float64      `json:"tax"`
	ShippingCharges float64      `json:"shippingCharges"`
	Discount        float64      `json:"discount"`
	Total           float64      `json:"total"`
	Status          OrderStatus  `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// OrderAmounts groups the monetary fields supplied when placing an order.
type OrderAmounts struct {
	Subtotal        float64
	Tax             float64
	ShippingCharges float64
	Discount        float64
	Total           float64
}

// NewOrder creates an order in the Processing state.
func NewOrder(userID string, shipping ShippingInfo, items []OrderItem, amounts OrderAmounts, now time.Time) (*Order, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("user is required")
	}
	if len(items) == 0 {
		return nil, pkgerrors.NewValidationError("an order needs at least one item")
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, pkgerrors.NewValidationError("every order item needs a product and a positive quantity")
		}
	}
	if amounts.Subtotal < 0 || amounts.Tax < 0 || amounts.ShippingCharges < 0 || amounts.Discount < 0 || amounts.Total < 0 {
		return nil, pkgerrors.NewValidationError("order amounts cannot be negative")
	}

	return &Order{
		ID:              valueobjects.NewEntityID(),
		UserID:          userID,
		ShippingInfo:    shipping,
		Items:           items,
		Subtotal:        amounts.Subtotal,
		Tax:             amounts.Tax,
		ShippingCharges: amounts.ShippingCharges,
		Discount:        amounts.Discount,
		Total:           amounts.Total,
		Status:          OrderProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// AdvanceStatus moves the order one step along Processing → Shipped →
// Delivered. A delivered order stays delivered.
func (o *Order) AdvanceStatus(now time.Time) (from, to OrderStatus) {
	from = o.Status
	to = from.Next()
	if to != from {
		o.Status = to
		o.UpdatedAt = now
	}
	return from, to
}

// Categories lists the distinct item categories of the order.
func (o *Order) Categories() []string {
	seen := make(map[string]struct{}, len(o.Items))
	var out []string
	for _, item := range o.Items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	return out
}

// HasCategory reports whether any item belongs to category.
func (o *Order) HasCategory(category string) bool {
	for _, item := range o.Items {
		if item.Category == category {
			return true
		}
	}
	return false
}
