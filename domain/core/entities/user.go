package entities

import (
	"net/mail"
	"strings"
	"time"

	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/utils"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a registered shopper or administrator. The id is issued by the
// external identity provider.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Photo     string     `json:"photo,omitempty"`
	Gender    Gender     `json:"gender"`
	Role      Role       `json:"role"`
	DOB       *time.Time `json:"dob,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ParseGender accepts any casing.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, nil
	}
	return "", pkgerrors.NewValidationError("gender must be male or female")
}

// ParseRole defaults to RoleUser when s is empty.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleUser, nil
	case RoleAdmin, RoleUser:
		return r, nil
	}
	return "", pkgerrors.NewValidationError("role must be admin or user")
}

// NewUser validates and creates a user.
func NewUser(id, name, email, photo string, gender Gender, role Role, dob *time.Time, now time.Time) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.NewValidationError("user id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidationError("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.NewValidationError("email is invalid")
	}
	if dob != nil && dob.After(now) {
		return nil, pkgerrors.NewValidationError("date of birth cannot be in the future")
	}

	return &User{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Photo:     photo,
		Gender:    gender,
		Role:      role,
		DOB:       dob,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AgeAt returns the user's age in whole years at t. ok is false when the
// date of birth is unknown.
func (u *User) AgeAt(t time.Time) (age int, ok bool) {
	if u.DOB == nil {
		return 0, false
	}
	return utils.WholeYearsBetween(*u.DOB, t), true
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
