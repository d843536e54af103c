// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package dispatch orchestrates one issue send: fetch activity data, build
// the render context, render both mail bodies, submit the campaign, and
// record the send in history.
//
// Each send walks a fixed state sequence:
//
//	FETCHING -> RENDERING -> SUBMITTING -> RECORDING -> DONE
//
// Any error before SUBMITTING completes fails the request. A RECORDING
// failure after a successful submit does not: the campaign is already out,
// so the gap is logged loudly and the confirmation still reports success.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/Rudiend/weeklypedia/internal/history"
	"github.com/Rudiend/weeklypedia/internal/issue"
	"github.com/Rudiend/weeklypedia/internal/language"
	"github.com/Rudiend/weeklypedia/internal/logging"
	"github.com/Rudiend/weeklypedia/internal/mailinglist"
	"github.com/Rudiend/weeklypedia/internal/metrics"
)

// state labels the dispatch progress for logging.
type state string

const (
	stateFetching   state = "fetching"
	stateRendering  state = "rendering"
	stateSubmitting state = "submitting"
	stateRecording  state = "recording"
	stateDone       state = "done"
)

// Fetcher is the upstream activity source used by the dispatcher.
type Fetcher interface {
	Fetch(ctx context.Context, code string) (map[string]any, error)
}

// Renderer renders a context into one output format.
type Renderer interface {
	Render(ctx issue.RenderContext, format issue.Format) (string, error)
}

// Params wires a Dispatcher. All collaborators are injected; there are no
// hidden process-wide singletons.
type Params struct {
	Catalog  *language.Catalog
	Fetcher  Fetcher
	Renderer Renderer
	Sender   mailinglist.Sender
	History  history.Store

	// IssueNumber is stamped into every generated issue.
	IssueNumber int

	// APIKeySuffix is appended to the per-request send key to form the
	// provider API key.
	APIKeySuffix string

	// DefaultListID is used when a send request does not name a list.
	DefaultListID string

	// Now supplies the issue timestamp; defaults to time.Now.
	Now func() time.Time
}

// Dispatcher runs the send pipeline.
type Dispatcher struct {
	catalog       *language.Catalog
	fetcher       Fetcher
	renderer      Renderer
	sender        mailinglist.Sender
	history       history.Store
	issueNumber   int
	apiKeySuffix  string
	defaultListID string
	now           func() time.Time
}

// New creates a Dispatcher from Params.
func New(p Params) *Dispatcher {
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Dispatcher{
		catalog:       p.Catalog,
		fetcher:       p.Fetcher,
		renderer:      p.Renderer,
		sender:        p.Sender,
		history:       p.History,
		issueNumber:   p.IssueNumber,
		apiKeySuffix:  p.APIKeySuffix,
		defaultListID: p.DefaultListID,
		now:           p.Now,
	}
}

// IssueNumber returns the configured issue number.
func (d *Dispatcher) IssueNumber() int {
	return d.issueNumber
}

// BuildContext resolves the language, fetches current activity data, and
// builds the canonical render context for one issue. Shared by the send
// path and the view/publish surfaces so every format of an issue derives
// from the same context.
func (d *Dispatcher) BuildContext(ctx context.Context, langCode string) (issue.RenderContext, error) {
	entry, err := d.catalog.Resolve(langCode)
	if err != nil {
		return nil, err
	}

	raw, err := d.fetcher.Fetch(ctx, langCode)
	if err != nil {
		return nil, err
	}

	return issue.Build(raw, entry, d.issueNumber, d.now()), nil
}

// Dispatch sends one issue to the mailing list for langCode and returns a
// human-readable confirmation naming the issue number sent.
func (d *Dispatcher) Dispatch(ctx context.Context, langCode, sendKey, listID string) (string, error) {
	log := logging.With().Str("component", "dispatch").Str("lang", langCode).Logger()

	log.Debug().Str("state", string(stateFetching)).Msg("Dispatch state")
	entry, err := d.catalog.Resolve(langCode)
	if err != nil {
		return "", err
	}
	renderCtx, err := d.BuildContext(ctx, langCode)
	if err != nil {
		return "", err
	}

	log.Debug().Str("state", string(stateRendering)).Msg("Dispatch state")
	bodyHTML, err := d.renderer.Render(renderCtx, issue.FormatHTML)
	if err != nil {
		return "", err
	}
	bodyText, err := d.renderer.Render(renderCtx, issue.FormatText)
	if err != nil {
		return "", err
	}

	log.Debug().Str("state", string(stateSubmitting)).Msg("Dispatch state")
	if listID == "" {
		listID = d.defaultListID
	}
	campaign := mailinglist.Campaign{
		Subject:  fmt.Sprintf("Weeklypedia, Issue %d, %s Edition", d.issueNumber, entry.DisplayName),
		BodyHTML: bodyHTML,
		BodyText: bodyText,
		ListID:   listID,
	}
	if err := d.sender.SendCampaign(ctx, sendKey+d.apiKeySuffix, campaign); err != nil {
		return "", err
	}

	// The campaign is out. A history failure past this point is an
	// accepted inconsistency: no compensating action exists, so it is
	// logged and the send still reports success.
	log.Debug().Str("state", string(stateRecording)).Msg("Dispatch state")
	if err := d.history.Append(langCode, renderCtx); err != nil {
		metrics.HistoryAppendErrors.WithLabelValues(langCode).Inc()
		log.Error().Err(err).
			Int("issue", d.issueNumber).
			Msg("Campaign sent but history append failed; history has a gap for this issue")
	}

	metrics.IssuesSentTotal.WithLabelValues(langCode).Inc()
	log.Info().Str("state", string(stateDone)).Int("issue", d.issueNumber).Msg("Issue dispatched")

	return fmt.Sprintf("Success: sent Issue %d, %s Edition", d.issueNumber, entry.DisplayName), nil
}
