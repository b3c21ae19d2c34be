package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// NewEntityID creates a new random identifier for products, orders,
// reviews and coupons. User ids come from the identity provider instead.
func NewEntityID() string {
	return uuid.New().String()
}

// ParseEntityID checks that id is a well formed generated identifier.
func ParseEntityID(id string) (string, error) {
	if id == "" {
		return "", errors.New("id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.New("id must be a valid UUID")
	}
	return id, nil
}
