// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

package mailinglist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

var testCampaign = Campaign{
	Subject:  "Weeklypedia, Issue 2, Estonian Edition",
	BodyHTML: "<h1>digest</h1>",
	BodyText: "digest",
	ListID:   "list-123",
}

func TestSendCampaign(t *testing.T) {
	var got campaignPayload
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if err := client.SendCampaign(context.Background(), "key-abc", testCampaign); err != nil {
		t.Fatalf("SendCampaign() error = %v", err)
	}

	if auth != "Bearer key-abc" {
		t.Errorf("Authorization = %q, want bearer api key", auth)
	}
	if got.Subject != testCampaign.Subject {
		t.Errorf("subject = %q, want %q", got.Subject, testCampaign.Subject)
	}
	if got.BodyHTML != testCampaign.BodyHTML || got.BodyText != testCampaign.BodyText {
		t.Error("campaign bodies not forwarded intact")
	}
	if got.ListID != "list-123" {
		t.Errorf("list_id = %q, want list-123", got.ListID)
	}
	if !got.SendImmediately {
		t.Error("send_immediately = false, want create-and-send as one unit")
	}
	if got.Reference == "" {
		t.Error("reference is empty, want a generated identifier")
	}
}

func TestSendCampaignProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid list", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).SendCampaign(context.Background(), "key", testCampaign)
	if !errors.Is(err, ErrMailingList) {
		t.Errorf("SendCampaign() error = %v, want ErrMailingList", err)
	}
}

func TestSendCampaignNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewClient(srv.URL).SendCampaign(context.Background(), "key", testCampaign)
	if !errors.Is(err, ErrMailingList) {
		t.Errorf("SendCampaign() error = %v, want ErrMailingList", err)
	}
}
