package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", Invalid("name", "required"), KindValidation},
		{"conflict", Conflict("role", "name", "admin"), KindConflict},
		{"not found", NotFound("role"), KindNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", NotFound("user")), KindNotFound},
		{"invalid credentials", ErrInvalidCredentials, KindAuthentication},
		{"account locked", ErrAccountLocked, KindAccountLocked},
		{"wrapped account locked", fmt.Errorf("login: %w", ErrAccountLocked), KindAccountLocked},
		{"forbidden", Forbidden("users.manage"), KindForbidden},
		{"domain", Domain("role %d does not exist", 7), KindDomain},
		{"internal", errors.New("connection reset"), KindInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestAccountLockedIsAuthenticationFailure(t *testing.T) {
	require.ErrorIs(t, ErrAccountLocked, ErrAuthentication)
	assert.NotErrorIs(t, ErrInvalidCredentials, ErrAccountLocked)
	assert.NotErrorIs(t, ErrAccountLocked, ErrValidation)
}

func TestConflictIsNotValidation(t *testing.T) {
	err := Conflict("role", "name", "admin")

	require.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), `"admin"`)
}

func TestFromValidator(t *testing.T) {
	type input struct {
		Name string `validate:"required,min=4,max=50"`
	}

	err := FromValidator(validator.New().Struct(input{Name: "ab"}))
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "Name", verr.Fields[0].Field)
	assert.Equal(t, "min", verr.Fields[0].Tag)
	assert.Equal(t, "4", verr.Fields[0].Param)

	other := errors.New("boom")
	assert.Same(t, other, FromValidator(other))
	assert.NoError(t, FromValidator(nil))
}

func TestFromValidatorHidesSecrets(t *testing.T) {
	type input struct {
		Username    string `validate:"min=4"`
		NewPassword string `validate:"min=8"`
	}

	err := FromValidator(validator.New().Struct(input{Username: "ab", NewPassword: "short"}))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "ab", verr.Fields[0].Value)
	assert.Nil(t, verr.Fields[1].Value)
	assert.NotContains(t, err.Error(), "short")
}
