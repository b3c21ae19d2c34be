package commands

import (
	"storeadmin/domain/core/entities"
	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/utils"
)

// OrderLine requests a quantity of one product. Name, price and category
// are taken from the catalog when the order is placed.
type OrderLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// PlaceOrderCommand creates an order and takes its items out of stock.
type PlaceOrderCommand struct {
	OrderID         string                `json:"-" validate:"required"`
	UserID          string                `json:"user" validate:"required"`
	ShippingInfo    entities.ShippingInfo `json:"shippingInfo"`
	Items           []OrderLine           `json:"orderItems" validate:"required,min=1,dive"`
	Subtotal        float64               `json:"subtotal" validate:"gte=0"`
	Tax             float64               `json:"tax" validate:"gte=0"`
	ShippingCharges float64               `json:"shippingCharges" validate:"gte=0"`
	Discount        float64               `json:"discount" validate:"gte=0"`
	Total           float64               `json:"total" validate:"gte=0"`
}

func (c PlaceOrderCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	s := c.ShippingInfo
	if s.Address == "" || s.City == "" || s.State == "" || s.Country == "" || s.PinCode == "" {
		return pkgerrors.NewValidationError("shipping address, city, state, country and pin code are required")
	}
	return nil
}

// Amounts returns the monetary fields of the order.
func (c PlaceOrderCommand) Amounts() entities.OrderAmounts {
	return entities.OrderAmounts{
		Subtotal:        c.Subtotal,
		Tax:             c.Tax,
		ShippingCharges: c.ShippingCharges,
		Discount:        c.Discount,
		Total:           c.Total,
	}
}

// ProcessOrderCommand advances an order one fulfillment step.
type ProcessOrderCommand struct {
	OrderID string `validate:"required"`
}

func (c ProcessOrderCommand) Validate() error {
	return utils.ValidateStruct(c)
}

type DeleteOrderCommand struct {
	OrderID string `validate:"required"`
}

func (c DeleteOrderCommand) Validate() error {
	return utils.ValidateStruct(c)
}
