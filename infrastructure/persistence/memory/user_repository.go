package memory

import (
	"context"
	"time"

	"storeadmin/application/ports"
	"storeadmin/domain/core/entities"
)

// UserRepository keeps users in memory
type UserRepository struct {
	rows *table[entities.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{rows: newTable("user", cloneUser)}
}

func cloneUser(u *entities.User) *entities.User {
	c := *u
	if u.DOB != nil {
		dob := *u.DOB
		c.DOB = &dob
	}
	return &c
}

func userCreated(u *entities.User) time.Time { return u.CreatedAt }
func userID(u *entities.User) string         { return u.ID }

func (r *UserRepository) Save(_ context.Context, user *entities.User) error {
	return r.rows.put(user.ID, user)
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entities.User, error) {
	return r.rows.get(id)
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

func (r *UserRepository) List(_ context.Context) ([]*entities.User, error) {
	users := r.rows.filter(nil)
	byTime(users, userCreated, userID, false)
	return users, nil
}

func (r *UserRepository) CreatedBetween(_ context.Context, window ports.TimeRange) ([]*entities.User, error) {
	users := r.rows.filter(func(u *entities.User) bool { return window.Contains(u.CreatedAt) })
	byTime(users, userCreated, userID, false)
	return users, nil
}
