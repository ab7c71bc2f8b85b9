//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	assert.NotEqual(t, ErrValidation, ErrConnectivity)
	assert.NotEqual(t, ErrValidation, ErrPermission)
	assert.NotEqual(t, ErrValidation, ErrNotFound)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "validation failed",
		Message:  "invalid value",
		Location: "/srv/shop/buildpack.cue",
		Field:    "devServer.port",
		Context:  map[string]string{"Mode": "staging"},
		Hint:     "Use an integer port",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: validation failed")
	assert.Contains(t, output, "Location: /srv/shop/buildpack.cue")
	assert.Contains(t, output, "Field: devServer.port")
	assert.Contains(t, output, "Mode: staging")
	assert.Contains(t, output, "invalid value")
	assert.Contains(t, output, "Hint: Use an integer port")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrValidation,
	}

	assert.True(t, errors.Is(detail, ErrValidation))
	assert.Equal(t, ErrValidation, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(
		"invalid value",
		"/srv/shop/buildpack.cue",
		"devServer.port",
		"Use an integer port",
	)

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "validation failed", detail.Type)
	assert.Equal(t, "invalid value", detail.Message)
	assert.Equal(t, "/srv/shop/buildpack.cue", detail.Location)
	assert.Equal(t, "devServer.port", detail.Field)
	assert.Equal(t, "Use an integer port", detail.Hint)
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrValidation, "project config check failed")

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Contains(t, wrapped.Error(), "project config check failed")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", Wrap(ErrValidation, "bad mode"), ExitValidationError},
		{"connectivity", Wrap(ErrConnectivity, "registry down"), ExitConnectivityError},
		{"not found", NewNotFoundError("no manifest", "asset-manifest.json", ""), ExitNotFound},
		{"explicit code", NewExitError(errors.New("boom"), ExitPermissionDenied), ExitPermissionDenied},
		{"unknown", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	err := NewExitError(Wrap(ErrNotFound, "template missing"), ExitNotFound)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "template missing: not found", err.Error())
	assert.Equal(t, "Not Found", ExitCodeName(err.Code))
}
