package events

import "time"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func base(id, eventType string, at time.Time) BaseEvent {
	return BaseEvent{AggregateID: id, EventType: eventType, Timestamp: at, Version: 1}
}

// SourceStoreAdmin is the EventBridge source of every event this service emits.
const SourceStoreAdmin = "storeadmin.backend"

// Event type names, also used as the EventBridge detail-type.
const (
	TypeProductCreated     = "product.created"
	TypeProductUpdated     = "product.updated"
	TypeProductDeleted     = "product.deleted"
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderDeleted       = "order.deleted"
	TypeReviewSaved        = "review.saved"
	TypeReviewDeleted      = "review.deleted"
	TypeUserRegistered     = "user.registered"
	TypeUserDeleted        = "user.deleted"
	TypeCouponChanged      = "coupon.changed"
)

// Product Events

// ProductChanged covers creation, update and deletion of a catalog item.
type ProductChanged struct {
	BaseEvent
	ProductID string `json:"product_id"`
	Category  string `json:"category"`
}

func NewProductChanged(eventType, productID, category string, at time.Time) ProductChanged {
	return ProductChanged{BaseEvent: base(productID, eventType, at), ProductID: productID, Category: category}
}

// Order Events

// OrderPlaced is raised after stock was reserved and the order stored.
type OrderPlaced struct {
	BaseEvent
	OrderID string  `json:"order_id"`
	UserID  string  `json:"user_id"`
	Total   float64 `json:"total"`
	Items   int     `json:"items"`
}

func NewOrderPlaced(orderID, userID string, total float64, items int, at time.Time) OrderPlaced {
	return OrderPlaced{BaseEvent: base(orderID, TypeOrderPlaced, at), OrderID: orderID, UserID: userID, Total: total, Items: items}
}

// OrderStatusChanged is raised on every process call, including the no-op
// call on a delivered order, so From may equal To.
type OrderStatusChanged struct {
	BaseEvent
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

func NewOrderStatusChanged(orderID, userID, from, to string, at time.Time) OrderStatusChanged {
	return OrderStatusChanged{BaseEvent: base(orderID, TypeOrderStatusChanged, at), OrderID: orderID, UserID: userID, From: from, To: to}
}

type OrderDeleted struct {
	BaseEvent
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

func NewOrderDeleted(orderID, userID string, at time.Time) OrderDeleted {
	return OrderDeleted{BaseEvent: base(orderID, TypeOrderDeleted, at), OrderID: orderID, UserID: userID}
}

// Review Events

type ReviewChanged struct {
	BaseEvent
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
}

func NewReviewChanged(eventType, reviewID, productID, userID string, rating int, at time.Time) ReviewChanged {
	return ReviewChanged{BaseEvent: base(reviewID, eventType, at), ProductID: productID, UserID: userID, Rating: rating}
}

// User Events

type UserChanged struct {
	BaseEvent
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func NewUserChanged(eventType, userID, role string, at time.Time) UserChanged {
	return UserChanged{BaseEvent: base(userID, eventType, at), UserID: userID, Role: role}
}

// Coupon Events

type CouponChanged struct {
	BaseEvent
	Code    string `json:"code"`
	Deleted bool   `json:"deleted"`
}

func NewCouponChanged(couponID, code string, deleted bool, at time.Time) CouponChanged {
	return CouponChanged{BaseEvent: base(couponID, TypeCouponChanged, at), Code: code, Deleted: deleted}
}
