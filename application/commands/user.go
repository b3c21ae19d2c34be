package commands

import (
	"time"

	"storeadmin/pkg/utils"
)

// RegisterUserCommand records a user the identity provider has signed in.
// Registering an existing id leaves the stored user untouched.
type RegisterUserCommand struct {
	UserID string     `json:"_id" validate:"required"`
	Name   string     `json:"name" validate:"required"`
	Email  string     `json:"email" validate:"required,email"`
	Photo  string     `json:"photo" validate:"omitempty,url"`
	Gender string     `json:"gender" validate:"required"`
	Role   string     `json:"role"`
	DOB    *time.Time `json:"dob"`
}

func (c RegisterUserCommand) Validate() error {
	return utils.ValidateStruct(c)
}

type DeleteUserCommand struct {
	UserID string `validate:"required"`
}

func (c DeleteUserCommand) Validate() error {
	return utils.ValidateStruct(c)
}
