// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/pressfeed/internal/feed"
	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/wordpress"
)

// Request parsing errors
var (
	// ErrInvalidInteger is returned for a query parameter that is not an integer.
	ErrInvalidInteger = errors.New("must be an integer")

	// ErrInvalidBoolean is returned for a query parameter that is not a boolean.
	ErrInvalidBoolean = errors.New("must be true or false")
)

// respondUpstreamError maps an error from the WordPress client chain to an
// HTTP response.
func respondUpstreamError(rw *ResponseWriter, r *http.Request, err error) {
	var apiErr *wordpress.APIError

	switch {
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to write
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request canceled by client")
	case errors.Is(err, wordpress.ErrNotFound):
		rw.NotFound("Post not found")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "WordPress did not respond in time")
	case wordpress.IsOpen(err):
		rw.ServiceUnavailable("WordPress is temporarily unavailable")
	case errors.Is(err, wordpress.ErrRateLimited):
		rw.ServiceUnavailable("WordPress is rate limiting requests, retry later")
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest:
		rw.BadRequest(apiErr.Message)
	default:
		rw.UpstreamError(err)
	}
}

// respondFeedError maps a session registry error to an HTTP response.
func respondFeedError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, feed.ErrSessionNotFound), errors.Is(err, feed.ErrClosed):
		rw.NotFound("Feed session not found or expired")
	default:
		rw.InternalError("Feed session error")
	}
}
