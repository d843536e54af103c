// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Rudiend/weeklypedia/internal/history"
	"github.com/Rudiend/weeklypedia/internal/issue"
	"github.com/Rudiend/weeklypedia/internal/language"
	"github.com/Rudiend/weeklypedia/internal/mailinglist"
)

type fakeFetcher struct {
	data  map[string]any
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeSender struct {
	err       error
	calls     int
	apiKey    string
	campaigns []mailinglist.Campaign
}

func (s *fakeSender) SendCampaign(_ context.Context, apiKey string, c mailinglist.Campaign) error {
	s.calls++
	s.apiKey = apiKey
	s.campaigns = append(s.campaigns, c)
	if s.err != nil {
		return s.err
	}
	return nil
}

func testCatalog(t *testing.T) *language.Catalog {
	t.Helper()
	return language.NewCatalog(map[string]string{"en": "English"})
}

func testRenderer(t *testing.T) *issue.Renderer {
	t.Helper()
	r, err := issue.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func newTestDispatcher(t *testing.T, fetcher *fakeFetcher, sender *fakeSender, store history.Store) *Dispatcher {
	t.Helper()
	return New(Params{
		Catalog:       testCatalog(t),
		Fetcher:       fetcher,
		Renderer:      testRenderer(t),
		Sender:        sender,
		History:       store,
		IssueNumber:   2,
		APIKeySuffix:  "-secret",
		DefaultListID: "list-default",
		Now:           func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestDispatchSuccess(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]any{"edits": 42}}
	sender := &fakeSender{}
	store := history.NewMemoryStore()
	d := newTestDispatcher(t, fetcher, sender, store)

	confirmation, err := d.Dispatch(context.Background(), "en", "key", "list-7")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !strings.Contains(confirmation, "Issue 2") {
		t.Errorf("confirmation %q does not name the issue number", confirmation)
	}

	if sender.calls != 1 {
		t.Fatalf("sender calls = %d, want 1", sender.calls)
	}
	if sender.apiKey != "key-secret" {
		t.Errorf("api key = %q, want send key plus suffix", sender.apiKey)
	}
	campaign := sender.campaigns[0]
	if campaign.Subject != "Weeklypedia, Issue 2, English Edition" {
		t.Errorf("subject = %q", campaign.Subject)
	}
	if campaign.ListID != "list-7" {
		t.Errorf("list id = %q, want list-7", campaign.ListID)
	}
	if !strings.Contains(campaign.BodyHTML, "Weeklypedia") {
		t.Errorf("html body missing masthead: %q", campaign.BodyHTML[:min(len(campaign.BodyHTML), 120)])
	}
	if campaign.BodyText == "" {
		t.Error("text body is empty")
	}

	log, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	entries := log["en"]
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if got, ok := entries[0]["edits"].(int); !ok || got != 42 {
		t.Errorf("recorded edits = %v, want 42", entries[0]["edits"])
	}
	if entries[0][issue.KeyIssueNumber] != 2 {
		t.Errorf("recorded issue_number = %v, want 2", entries[0][issue.KeyIssueNumber])
	}
}

func TestDispatchDefaultListID(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]any{}}
	sender := &fakeSender{}
	d := newTestDispatcher(t, fetcher, sender, history.NewMemoryStore())

	if _, err := d.Dispatch(context.Background(), "en", "key", ""); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got := sender.campaigns[0].ListID; got != "list-default" {
		t.Errorf("list id = %q, want configured default", got)
	}
}

func TestDispatchUnknownLanguage(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]any{}}
	sender := &fakeSender{}
	d := newTestDispatcher(t, fetcher, sender, history.NewMemoryStore())

	_, err := d.Dispatch(context.Background(), "xx", "key", "")
	if !errors.Is(err, language.ErrUnknownLanguage) {
		t.Fatalf("Dispatch() error = %v, want ErrUnknownLanguage", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times for unknown language, want 0", fetcher.calls)
	}
	if sender.calls != 0 {
		t.Errorf("sender called %d times, want 0", sender.calls)
	}
}

func TestDispatchFetchFailureStopsPipeline(t *testing.T) {
	fetchErr := errors.New("upstream down")
	fetcher := &fakeFetcher{err: fetchErr}
	sender := &fakeSender{}
	store := history.NewMemoryStore()
	d := newTestDispatcher(t, fetcher, sender, store)

	_, err := d.Dispatch(context.Background(), "en", "key", "")
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Dispatch() error = %v, want fetch error", err)
	}
	if sender.calls != 0 {
		t.Errorf("sender called %d times after fetch failure, want 0", sender.calls)
	}
	log, _ := store.Load()
	if len(log["en"]) != 0 {
		t.Errorf("history gained %d entries after fetch failure, want 0", len(log["en"]))
	}
}

func TestDispatchSendFailureSkipsHistory(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]any{"edits": 1}}
	sender := &fakeSender{err: mailinglist.ErrMailingList}
	store := history.NewMemoryStore()
	d := newTestDispatcher(t, fetcher, sender, store)

	_, err := d.Dispatch(context.Background(), "en", "key", "")
	if !errors.Is(err, mailinglist.ErrMailingList) {
		t.Fatalf("Dispatch() error = %v, want ErrMailingList", err)
	}
	log, _ := store.Load()
	if len(log["en"]) != 0 {
		t.Errorf("history gained %d entries after send failure, want 0", len(log["en"]))
	}
}

func TestDispatchHistoryFailureStillSucceeds(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]any{"edits": 1}}
	sender := &fakeSender{}
	store := history.NewMemoryStore()
	store.AppendErr = errors.New("disk full")
	d := newTestDispatcher(t, fetcher, sender, store)

	confirmation, err := d.Dispatch(context.Background(), "en", "key", "")
	if err != nil {
		t.Fatalf("Dispatch() error = %v, want success despite history failure", err)
	}
	if !strings.Contains(confirmation, "Issue 2") {
		t.Errorf("confirmation %q does not name the issue number", confirmation)
	}
	if sender.calls != 1 {
		t.Errorf("sender calls = %d, want 1", sender.calls)
	}
}

func TestBuildContext(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]any{"edits": 42, "language": "raw-upstream-name"}}
	d := newTestDispatcher(t, fetcher, &fakeSender{}, history.NewMemoryStore())

	renderCtx, err := d.BuildContext(context.Background(), "en")
	if err != nil {
		t.Fatalf("BuildContext() error = %v", err)
	}
	if renderCtx[issue.KeyLanguage] != "English" {
		t.Errorf("language = %v, want resolved display name to win over raw field", renderCtx[issue.KeyLanguage])
	}
	if renderCtx[issue.KeyDate] != "March 01, 2024" {
		t.Errorf("date = %v", renderCtx[issue.KeyDate])
	}
	if renderCtx["edits"] != 42 {
		t.Errorf("edits = %v, want 42", renderCtx["edits"])
	}
}

func TestBuildContextUnknownLanguage(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string]any{}}
	d := newTestDispatcher(t, fetcher, &fakeSender{}, history.NewMemoryStore())

	if _, err := d.BuildContext(context.Background(), "nope"); !errors.Is(err, language.ErrUnknownLanguage) {
		t.Fatalf("BuildContext() error = %v, want ErrUnknownLanguage", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times for unknown language, want 0", fetcher.calls)
	}
}
