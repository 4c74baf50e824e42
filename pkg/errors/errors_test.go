package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsMapToStatuses(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		check  func(error) bool
	}{
		{NewValidationError("bad input"), http.StatusBadRequest, IsValidation},
		{NewNotFoundError("Profile"), http.StatusNotFound, IsNotFound},
		{NewUnauthorizedError("no token"), http.StatusUnauthorized, IsUnauthorized},
		{NewForbiddenError("not yours"), http.StatusForbidden, IsForbidden},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus)
		assert.True(t, tc.check(tc.err))
	}
}

func TestNewNotFoundError_FormatsResource(t *testing.T) {
	err := NewNotFoundError("Notification")
	assert.Equal(t, "Notification not found", err.Message)
}

func TestNewNotFoundMessage_Verbatim(t *testing.T) {
	err := NewNotFoundMessage("Not following this user")
	assert.Equal(t, "Not following this user", err.Message)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
}

func TestWrap_AddsContextToAppError(t *testing.T) {
	wrapped := Wrap(NewNotFoundError("Profile"), "loading viewer")

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "loading viewer: Profile not found", appErr.Message)
	assert.True(t, IsNotFound(wrapped))
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	cause := fmt.Errorf("connection reset")

	wrapped := Wrap(cause, "decoding rows")

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, "decoding rows", appErr.Message)
	assert.ErrorIs(t, wrapped, cause)
}

func TestWrap_NilPassesThrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWrapf_FormatsMessage(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "decoding %s result", "match_profiles")

	appErr := GetAppError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "decoding match_profiles result", appErr.Message)
}
