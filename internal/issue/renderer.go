// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

package issue

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/goccy/go-json"
)

// Format identifies one issue output format.
type Format string

const (
	// FormatHTML is the rich HTML rendering.
	FormatHTML Format = "html"

	// FormatText is the plaintext rendering.
	FormatText Format = "text"

	// FormatData is the canonical structured-data serialization of the
	// render context. Output is deterministic: same context, same bytes.
	FormatData Format = "data"
)

// Formats lists every supported format in archive publication order.
var Formats = []Format{FormatHTML, FormatData, FormatText}

var (
	// ErrUnsupportedFormat is returned for format values outside Formats.
	ErrUnsupportedFormat = errors.New("unsupported render format")

	// ErrTemplate indicates a template parse or execution failure. This is
	// an internal misconfiguration, not a user input problem.
	ErrTemplate = errors.New("template rendering failed")
)

// ParseFormat maps external format names onto Format values. The archive
// and view surfaces use file-extension style names, so "txt" and "json"
// are accepted aliases. An empty string defaults to HTML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "html":
		return FormatHTML, nil
	case "text", "txt":
		return FormatText, nil
	case "data", "json":
		return FormatData, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the archive file extension for the format. The data
// format serializes as JSON, so its files carry the json extension.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatData:
		return "json"
	default:
		return "html"
	}
}

// Renderer renders one RenderContext into any supported format. The
// built-in templates are parsed once at construction; rendering is a pure
// function of (context, format).
type Renderer struct {
	htmlTmpl *template.Template
	textTmpl *texttemplate.Template
}

// NewRenderer parses the built-in digest templates.
func NewRenderer() (*Renderer, error) {
	funcs := map[string]any{
		"commaInt": commaInt,
	}

	htmlTmpl, err := template.New("digest.html").Funcs(funcs).Parse(digestHTMLTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing html template: %w", ErrTemplate, err)
	}

	textTmpl, err := texttemplate.New("digest.txt").Funcs(funcs).Parse(digestTextTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing text template: %w", ErrTemplate, err)
	}

	return &Renderer{htmlTmpl: htmlTmpl, textTmpl: textTmpl}, nil
}

// Render produces the serialized document for one format. Every format
// renders from the same context, so output content is consistent across
// formats for a single issue.
func (r *Renderer) Render(ctx RenderContext, format Format) (string, error) {
	switch format {
	case FormatHTML:
		var buf bytes.Buffer
		if err := r.htmlTmpl.Execute(&buf, map[string]any(ctx)); err != nil {
			return "", fmt.Errorf("%w: %w", ErrTemplate, err)
		}
		return buf.String(), nil

	case FormatText:
		var buf bytes.Buffer
		if err := r.textTmpl.Execute(&buf, map[string]any(ctx)); err != nil {
			return "", fmt.Errorf("%w: %w", ErrTemplate, err)
		}
		return buf.String(), nil

	case FormatData:
		return renderData(ctx)

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// renderData serializes the context with stable key ordering and fixed
// indentation, so archives and tests see byte-identical output for the
// same context.
func renderData(ctx RenderContext) (string, error) {
	out, err := json.MarshalIndent(map[string]any(ctx), "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing render context: %w", err)
	}
	return string(out), nil
}

// commaInt formats whole numbers with thousands separators. It is exposed
// to templates for upstream counters, which arrive as float64 after JSON
// decoding. Non-numeric values pass through unchanged.
func commaInt(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) {
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
		n = int64(x)
	case json.Number:
		parsed, err := x.Int64()
		if err != nil {
			return x.String()
		}
		n = parsed
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}

	if n < 0 {
		return "-" + commaInt(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
