// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package api exposes the digest pipeline over HTTP: language listing, raw
// activity passthrough, on-demand issue rendering, archive publishing, and
// campaign dispatch. All JSON endpoints use the models.APIResponse envelope.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rudiend/weeklypedia/internal/archive"
	"github.com/Rudiend/weeklypedia/internal/dispatch"
	"github.com/Rudiend/weeklypedia/internal/history"
	"github.com/Rudiend/weeklypedia/internal/issue"
	"github.com/Rudiend/weeklypedia/internal/language"
	"github.com/Rudiend/weeklypedia/internal/mailinglist"
	"github.com/Rudiend/weeklypedia/internal/models"
)

// Handler holds the collaborators behind the HTTP surface.
type Handler struct {
	catalog    *language.Catalog
	fetcher    dispatch.Fetcher
	renderer   dispatch.Renderer
	dispatcher *dispatch.Dispatcher
	archive    *archive.Writer
	archiveDev bool
	version    string
	startTime  time.Time
}

// NewHandler creates a Handler. archiveDev is the default dev-marking for
// publishes that do not say otherwise; version is reported by the health
// endpoint.
func NewHandler(catalog *language.Catalog, fetcher dispatch.Fetcher, renderer dispatch.Renderer, dispatcher *dispatch.Dispatcher, writer *archive.Writer, archiveDev bool, version string) *Handler {
	return &Handler{
		catalog:    catalog,
		fetcher:    fetcher,
		renderer:   renderer,
		dispatcher: dispatcher,
		archive:    writer,
		archiveDev: archiveDev,
		version:    version,
		startTime:  time.Now(),
	}
}

// mapError translates pipeline errors into an HTTP status and stable error
// code. Unknown languages are a client addressing mistake, upstream and
// provider failures are gateway errors, everything else is internal.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, language.ErrUnknownLanguage):
		return http.StatusNotFound, models.ErrCodeUnknownLanguage
	case errors.Is(err, issue.ErrFetch):
		return http.StatusBadGateway, models.ErrCodeFetch
	case errors.Is(err, issue.ErrUnsupportedFormat):
		return http.StatusBadRequest, models.ErrCodeUnsupportedFormat
	case errors.Is(err, issue.ErrTemplate):
		return http.StatusInternalServerError, models.ErrCodeTemplate
	case errors.Is(err, archive.ErrArchiveWrite):
		return http.StatusInternalServerError, models.ErrCodeArchiveWrite
	case errors.Is(err, history.ErrHistoryLoad):
		return http.StatusInternalServerError, models.ErrCodeHistoryLoad
	case errors.Is(err, history.ErrHistoryWrite):
		return http.StatusInternalServerError, models.ErrCodeHistoryWrite
	case errors.Is(err, mailinglist.ErrMailingList):
		return http.StatusBadGateway, models.ErrCodeMailingList
	default:
		return http.StatusInternalServerError, models.ErrCodeInternal
	}
}

func (h *Handler) respondPipelineError(w http.ResponseWriter, err error) {
	status, code := mapError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		message = "internal error"
	}
	respondError(w, status, code, message, err)
}

// Banner serves the root page.
func (h *Handler) Banner(w http.ResponseWriter, r *http.Request) {
	respondRaw(w, http.StatusOK, "text/plain; charset=utf-8", ":-|")
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"status":         "healthy",
			"version":        h.version,
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
			"languages":      h.catalog.Len(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Languages returns the supported language codes in sorted order.
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]any{"languages": h.catalog.Codes()},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Fetch returns the raw upstream activity payload for a language. An omitted
// language falls back to the default edition.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	langCode := chi.URLParam(r, "lang")
	if langCode == "" {
		langCode = language.DefaultCode
	}

	start := time.Now()
	raw, err := h.fetcher.Fetch(r.Context(), langCode)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   raw,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			ElapsedMS: time.Since(start).Milliseconds(),
		},
	})
}

// View renders the current issue for a language in the requested format. The
// body is the document itself, not the JSON envelope.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	format, err := issue.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	renderCtx, err := h.dispatcher.BuildContext(r.Context(), chi.URLParam(r, "lang"))
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	body, err := h.renderer.Render(renderCtx, format)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	respondRaw(w, http.StatusOK, contentTypeFor(format), body)
}

func contentTypeFor(format issue.Format) string {
	switch format {
	case issue.FormatData:
		return "application/json"
	case issue.FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "text/html; charset=utf-8"
	}
}

// Send dispatches the current issue as a mailing list campaign.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	sendKey := r.URL.Query().Get("sendkey")
	if sendKey == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, "sendkey query parameter is required", nil)
		return
	}
	listID := r.URL.Query().Get("list_id")

	confirmation, err := h.dispatcher.Dispatch(r.Context(), chi.URLParam(r, "lang"), sendKey, listID)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]any{"result": confirmation},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Publish renders all formats of the current issue into the archive and
// returns the written entries. Formats that fail are reported alongside the
// entries that succeeded.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	langCode := chi.URLParam(r, "lang")
	dev := h.archiveDev
	if raw := r.URL.Query().Get("dev"); raw != "" {
		dev = raw == "true" || raw == "1"
	}

	renderCtx, err := h.dispatcher.BuildContext(r.Context(), langCode)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	entries, err := h.archive.PublishAll(renderCtx, langCode, dev, time.Now())
	if err != nil && len(entries) == 0 {
		h.respondPipelineError(w, err)
		return
	}

	data := map[string]any{"entries": entries}
	if err != nil {
		// Partial publish: some formats landed, some did not.
		data["partial_error"] = err.Error()
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
