// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package port

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	errMissingAccessToken = errors.New("access token missing from authentication response")
	errMissingEntity      = errors.New("entity missing from response body")
	errUnauthorized       = errors.New("invalid credentials or insufficient permissions")
	errUnexpected         = errors.New("unexpected error")
)

// PortError wraps lower-level errors produced while talking with the Port API.
type PortError struct {
	StatusCode int

	err error
}

func (e *PortError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("port: %s (status %d)", e.err.Error(), e.StatusCode)
	}

	return "port: " + e.err.Error()
}

func (e *PortError) Unwrap() error {
	return e.err
}

func (e *PortError) Is(target error) bool {
	pe, ok := target.(*PortError)
	if !ok {
		return false
	}

	return e.StatusCode == pe.StatusCode && e.err.Error() == pe.err.Error()
}

// handleError normalizes errors emitted by the Port client.
func handleError(err error) error {
	var portErr *PortError
	if errors.As(err, &portErr) {
		return err
	}

	return &PortError{
		err: err,
	}
}

// responseError builds the error for a failed response, adding the message
// returned by the API when the body carries one.
func responseError(resp *http.Response) error {
	var err error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		err = errUnauthorized
	default:
		err = errUnexpected
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr == nil {
		var errResp map[string]any
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil {
			if message, ok := errResp["message"].(string); ok && message != "" {
				err = fmt.Errorf("%w: %s", err, message)
			}
		}
	}

	return &PortError{
		StatusCode: resp.StatusCode,
		err:        err,
	}
}

// isSuccess reports whether statusCode is one of the codes returned by Port for
// a successful read or write.
func isSuccess(statusCode int) bool {
	return statusCode == http.StatusOK || statusCode == http.StatusCreated
}
