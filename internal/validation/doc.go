// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use and shared. It reports
// fields by their json (or query) tag name so error messages match what the
// client sent, and registers one custom rule:
//
//   - wpslug: a WordPress post slug (lowercase, hyphenated, percent-encoded
//     bytes allowed)
//
// Handlers validate request structs and turn failures into the API error
// envelope:
//
//	req := FeedFilterRequest{CategoryID: body.CategoryID}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
