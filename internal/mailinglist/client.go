// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package mailinglist talks to the external mailing-list provider.
//
// The provider contract is minimal: one HTTP call creates a campaign and
// triggers its send as a single unit. Only success or failure comes back;
// no campaign ID is relied upon. Retries, if any, are the provider's
// responsibility, not this client's.
package mailinglist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ErrMailingList indicates a failed campaign submission.
var ErrMailingList = errors.New("mailing list campaign failed")

// Campaign is one outbound issue send.
type Campaign struct {
	Subject  string
	BodyHTML string
	BodyText string
	ListID   string
}

// Sender is the mailing-list collaborator interface used by the dispatcher.
type Sender interface {
	// SendCampaign creates and immediately triggers one campaign send.
	SendCampaign(ctx context.Context, apiKey string, campaign Campaign) error
}

// Client is the HTTP implementation of Sender.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the provider campaign endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// campaignPayload is the provider wire format.
type campaignPayload struct {
	// Reference identifies this submission in provider logs.
	Reference string `json:"reference"`
	Subject   string `json:"subject"`
	BodyHTML  string `json:"body_html"`
	BodyText  string `json:"body_text"`
	ListID    string `json:"list_id"`

	// SendImmediately requests create-and-send as one unit.
	SendImmediately bool `json:"send_immediately"`
}

// SendCampaign implements Sender. A non-2xx response or transport error is
// fatal for this submission; no retries happen at this layer.
func (c *Client) SendCampaign(ctx context.Context, apiKey string, campaign Campaign) error {
	payload := campaignPayload{
		Reference:       uuid.NewString(),
		Subject:         campaign.Subject,
		BodyHTML:        campaign.BodyHTML,
		BodyText:        campaign.BodyText,
		ListID:          campaign.ListID,
		SendImmediately: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: serializing campaign: %w", ErrMailingList, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrMailingList, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Weeklypedia/1.0")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMailingList, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: provider returned %d: %s", ErrMailingList, resp.StatusCode, detail)
	}

	return nil
}
