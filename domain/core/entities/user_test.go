package entities

import (
	"testing"
	"time"

	pkgerrors "storeadmin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender_CaseInsensitive(t *testing.T) {
	g, err := ParseGender("Male")
	require.NoError(t, err)
	assert.Equal(t, GenderMale, g)

	g, err = ParseGender(" FEMALE ")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, g)

	_, err = ParseGender("other")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestParseRole_DefaultsToUser(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	r, err = ParseRole("Admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("customer")
	assert.Error(t, err)
}

func TestUser_AgeAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	dob := time.Date(2004, 6, 15, 0, 0, 0, 0, time.UTC)
	u, err := NewUser("uid", "Asha", "asha@example.com", "", GenderFemale, RoleUser, &dob, now)
	require.NoError(t, err)

	age, ok := u.AgeAt(now)
	assert.True(t, ok)
	assert.Equal(t, 20, age)

	age, _ = u.AgeAt(now.AddDate(0, 0, -1))
	assert.Equal(t, 19, age)

	u.DOB = nil
	_, ok = u.AgeAt(now)
	assert.False(t, ok)
}

func TestNewUser_Validation(t *testing.T) {
	now := time.Now()
	future := now.Add(48 * time.Hour)

	_, err := NewUser("", "n", "a@b.co", "", GenderMale, RoleUser, nil, now)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewUser("id", "n", "not-an-email", "", GenderMale, RoleUser, nil, now)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewUser("id", "n", "a@b.co", "", GenderMale, RoleUser, &future, now)
	assert.True(t, pkgerrors.IsValidation(err))
}
