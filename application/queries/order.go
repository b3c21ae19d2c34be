package queries

import pkgerrors "storeadmin/pkg/errors"

type GetMyOrdersQuery struct {
	UserID string
}

func (q GetMyOrdersQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

type GetAllOrdersQuery struct{}

func (GetAllOrdersQuery) Validate() error { return nil }

type GetOrderQuery struct {
	OrderID string
}

func (q GetOrderQuery) Validate() error {
	if q.OrderID == "" {
		return pkgerrors.NewValidationError("order ID is required")
	}
	return nil
}
