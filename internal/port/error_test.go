// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package port

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPortError(t *testing.T) {
	t.Parallel()

	t.Run("Error returns prefixed message", func(t *testing.T) {
		t.Parallel()

		err := &PortError{err: errors.New("something went wrong")}
		require.Equal(t, "port: something went wrong", err.Error())

		err = &PortError{StatusCode: http.StatusNotFound, err: errors.New("missing")}
		require.Equal(t, "port: missing (status 404)", err.Error())
	})

	t.Run("Unwrap returns underlying error", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("root cause")
		err := &PortError{err: originalErr}
		require.Equal(t, originalErr, errors.Unwrap(err))
	})

	t.Run("Is matches similar PortError", func(t *testing.T) {
		t.Parallel()

		err1 := &PortError{StatusCode: 500, err: errors.New("foo")}
		err2 := &PortError{StatusCode: 500, err: errors.New("foo")}
		err3 := &PortError{StatusCode: 500, err: errors.New("bar")}
		err4 := &PortError{StatusCode: 502, err: errors.New("foo")}
		otherErr := errors.New("foo")

		require.ErrorIs(t, err1, err2)
		require.NotErrorIs(t, err1, err3)
		require.NotErrorIs(t, err1, err4)
		require.NotErrorIs(t, err1, otherErr)
	})
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	t.Run("wraps normal error", func(t *testing.T) {
		t.Parallel()

		result := handleError(errors.New("boom"))

		var pe *PortError
		require.ErrorAs(t, result, &pe)
		require.Equal(t, "port: boom", result.Error())
	})

	t.Run("keeps context cancellation visible", func(t *testing.T) {
		t.Parallel()

		result := handleError(fmt.Errorf("wrapped: %w", context.Canceled))
		require.ErrorIs(t, result, context.Canceled)
	})

	t.Run("does not wrap twice", func(t *testing.T) {
		t.Parallel()

		original := &PortError{StatusCode: http.StatusTeapot, err: errors.New("teapot")}
		require.Same(t, original, handleError(original))
	})
}

func TestResponseError(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		statusCode      int
		body            string
		expectedErr     error
		expectedMessage string
	}{
		"message from body": {
			statusCode:      http.StatusUnprocessableEntity,
			body:            `{"ok": false, "message": "invalid relation"}`,
			expectedErr:     errUnexpected,
			expectedMessage: "port: " + errUnexpected.Error() + ": invalid relation (status 422)",
		},
		"unauthorized with message": {
			statusCode:      http.StatusUnauthorized,
			body:            `{"ok": false, "message": "token expired"}`,
			expectedErr:     errUnauthorized,
			expectedMessage: "port: " + errUnauthorized.Error() + ": token expired (status 401)",
		},
		"forbidden without body": {
			statusCode:      http.StatusForbidden,
			expectedErr:     errUnauthorized,
			expectedMessage: "port: " + errUnauthorized.Error() + " (status 403)",
		},
		"unexpected body": {
			statusCode:      http.StatusInternalServerError,
			body:            "server exploded",
			expectedErr:     errUnexpected,
			expectedMessage: "port: " + errUnexpected.Error() + " (status 500)",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := responseError(&http.Response{
				StatusCode: tc.statusCode,
				Body:       io.NopCloser(strings.NewReader(tc.body)),
			})
			require.EqualError(t, err, tc.expectedMessage)
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
