// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package models defines shared response types for the HTTP API surface.
package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all JSON endpoints.
// It provides a consistent structure for both successful and error responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "UNKNOWN_LANGUAGE",
//	    "message": "unknown language code: xx"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`

	// ElapsedMS is the server-side handling time in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms,omitempty"`
}

// APIError carries structured error details. Code is machine-readable and
// stable; Message is for humans. Internal paths and stack traces are never
// included.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes returned by the API surface.
const (
	ErrCodeUnknownLanguage   = "UNKNOWN_LANGUAGE"
	ErrCodeFetch             = "FETCH_ERROR"
	ErrCodeTemplate          = "TEMPLATE_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeArchiveWrite      = "ARCHIVE_WRITE_ERROR"
	ErrCodeHistoryLoad       = "HISTORY_LOAD_ERROR"
	ErrCodeHistoryWrite      = "HISTORY_WRITE_ERROR"
	ErrCodeMailingList       = "MAILING_LIST_ERROR"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
)
