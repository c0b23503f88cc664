// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package wordpress

import (
	"errors"
	"fmt"
)

// Errors
var (
	// ErrNotFound is returned when no post matches a slug.
	ErrNotFound = errors.New("wordpress: not found")

	// ErrRateLimited is returned when HTTP 429 persists past the retry budget.
	ErrRateLimited = errors.New("wordpress: rate limit exceeded")
)

// codeInvalidPageNumber is the REST error returned when paging past the end.
const codeInvalidPageNumber = "rest_post_invalid_page_number"

// APIError is a non-2xx response from the WordPress REST API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wordpress: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("wordpress: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsClientError reports whether err is a 4xx APIError. Client errors do not
// indicate upstream trouble and are not counted against the circuit breaker.
func IsClientError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
	}
	return errors.Is(err, ErrNotFound)
}
