package queries

import pkgerrors "storeadmin/pkg/errors"

type GetAllUsersQuery struct{}

func (GetAllUsersQuery) Validate() error { return nil }

type GetUserQuery struct {
	UserID string
}

func (q GetUserQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}
