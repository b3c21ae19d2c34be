package commands

import (
	"storeadmin/domain/core/entities"
	"storeadmin/pkg/utils"
)

// CreateProductCommand adds a catalog item. ProductID is assigned by the caller.
type CreateProductCommand struct {
	ProductID   string           `json:"id" validate:"required"`
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description"`
	Price       float64          `json:"price" validate:"gte=0"`
	Stock       int              `json:"stock" validate:"gte=0"`
	Category    string           `json:"category" validate:"required"`
	Photos      []entities.Photo `json:"photos" validate:"max=5"`
}

func (c CreateProductCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UpdateProductCommand changes only the fields that are set.
type UpdateProductCommand struct {
	ProductID   string           `json:"id" validate:"required"`
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string          `json:"description,omitempty"`
	Price       *float64         `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Category    *string          `json:"category,omitempty"`
	IsActive    *bool            `json:"isActive,omitempty"`
	Photos      []entities.Photo `json:"photos,omitempty" validate:"omitempty,max=5"`
}

func (c UpdateProductCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// Update converts the command into the entity's partial update.
func (c UpdateProductCommand) Update() entities.ProductUpdate {
	return entities.ProductUpdate{
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Stock:       c.Stock,
		Category:    c.Category,
		IsActive:    c.IsActive,
		Photos:      c.Photos,
	}
}

type DeleteProductCommand struct {
	ProductID string `validate:"required"`
}

func (c DeleteProductCommand) Validate() error {
	return utils.ValidateStruct(c)
}
