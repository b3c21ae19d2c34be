package ports

import (
	"context"
	"time"

	"storeadmin/domain/core/entities"
	"storeadmin/domain/events"
)

// TimeRange is an inclusive [Start, End] window on entity creation time.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// SortOrder orders search results by price.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
)

// ProductSearch describes a catalog search. Empty fields do not filter.
type ProductSearch struct {
	Name     string
	Category string
	MaxPrice *float64
	Sort     SortOrder
	Page     int
	PageSize int
}

// ProductRepository defines the interface for product persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type ProductRepository interface {
	// Save persists a product (create or update)
	Save(ctx context.Context, product *entities.Product) error

	// GetByID returns a NOT_FOUND AppError when the product does not exist
	GetByID(ctx context.Context, id string) (*entities.Product, error)

	Delete(ctx context.Context, id string) error

	// List returns every product
	List(ctx context.Context) ([]*entities.Product, error)

	// ListIDs returns the id of every product. Used to enumerate cache keys.
	ListIDs(ctx context.Context) ([]string, error)

	// Latest returns the most recently created products, newest first
	Latest(ctx context.Context, limit int) ([]*entities.Product, error)

	// Categories returns the distinct categories, sorted
	Categories(ctx context.Context) ([]string, error)

	// Search returns one page of matches and the total number of matches
	Search(ctx context.Context, search ProductSearch) ([]*entities.Product, int, error)

	CreatedBetween(ctx context.Context, window TimeRange) ([]*entities.Product, error)
}

// OrderRef identifies an order and its owner without loading line items.
type OrderRef struct {
	ID     string
	UserID string
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	Save(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.Order, error)

	// ListByUser returns a user's orders, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Order, error)

	// ListRefs returns the id and owner of every order. Used to enumerate cache keys.
	ListRefs(ctx context.Context) ([]OrderRef, error)

	// Latest returns the most recently placed orders, newest first
	Latest(ctx context.Context, limit int) ([]*entities.Order, error)

	CreatedBetween(ctx context.Context, window TimeRange) ([]*entities.Order, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Save(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.User, error)
	CreatedBetween(ctx context.Context, window TimeRange) ([]*entities.User, error)
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	Save(ctx context.Context, review *entities.Review) error
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// FindByProductAndUser returns NOT_FOUND when the user has not reviewed the product
	FindByProductAndUser(ctx context.Context, productID, userID string) (*entities.Review, error)

	// ListByProduct returns a product's reviews, most recently updated first
	ListByProduct(ctx context.Context, productID string) ([]*entities.Review, error)

	Delete(ctx context.Context, id string) error
}

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	Save(ctx context.Context, coupon *entities.Coupon) error
	GetByID(ctx context.Context, id string) (*entities.Coupon, error)

	// GetByCode looks a coupon up by its normalized code
	GetByCode(ctx context.Context, code string) (*entities.Coupon, error)

	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entities.Coupon, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache is a flat key to bytes store with optional per-entry expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the live value for key. found is false for absent or
	// expired entries; that is not an error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the entry for key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Has(ctx context.Context, key string) (bool, error)

	// Delete removes every listed key; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases background resources such as sweepers and connections.
	Close() error
}
