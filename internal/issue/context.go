// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package issue implements the digest generation pipeline: building a
// canonical render context from fetched activity data, and rendering it
// into every output format from that single context.
package issue

import (
	"time"

	"github.com/Rudiend/weeklypedia/internal/language"
)

// RenderContext is the canonical data bag from which every output format of
// one issue is derived. Upstream fields are provider-defined and pass
// through opaquely; the reserved overlay keys below always win over
// same-named upstream fields. Once built, a context is never mutated.
type RenderContext map[string]any

// Reserved overlay keys. Upstream data cannot spoof these.
const (
	KeyIssueNumber   = "issue_number"
	KeyLanguage      = "language"
	KeyDate          = "date"
	KeyShortLangName = "short_lang_name"
	KeyFullLangName  = "full_lang_name"
)

// DateLayout is the human-readable issue date format.
const DateLayout = "January 02, 2006"

// Build merges raw upstream data with issue metadata into a RenderContext.
// All raw fields are copied, then the overlay fields are applied on top.
// The merge is deterministic and has no failure modes; inputs are already
// validated by the caller.
func Build(raw map[string]any, entry language.Entry, issueNumber int, now time.Time) RenderContext {
	ctx := make(RenderContext, len(raw)+5)
	for k, v := range raw {
		ctx[k] = v
	}

	ctx[KeyIssueNumber] = issueNumber
	ctx[KeyLanguage] = entry.DisplayName
	ctx[KeyDate] = now.UTC().Format(DateLayout)
	ctx[KeyShortLangName] = entry.Code
	ctx[KeyFullLangName] = entry.DisplayName

	return ctx
}

// IssueNumber returns the issue number stamped into the context, or 0 if
// the context was not produced by Build.
func (c RenderContext) IssueNumber() int {
	switch n := c[KeyIssueNumber].(type) {
	case int:
		return n
	case float64:
		// A context that round-tripped through JSON carries float64.
		return int(n)
	default:
		return 0
	}
}
