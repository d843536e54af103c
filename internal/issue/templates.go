// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// templates.go - Built-in digest templates
//
// Built-in HTML and plaintext templates for the weekly digest. Upstream
// activity fields are provider-defined, so every section guards its field
// with {{if}}/{{with}} and the templates render cleanly when a field is
// absent.
package issue

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Weeklypedia, Issue {{.issue_number}}</title>
  <style>
    body { font-family: Georgia, 'Times New Roman', serif; background: #f5f3ee; color: #222; margin: 0; padding: 20px; }
    .container { max-width: 600px; margin: 0 auto; background: #fff; border: 1px solid #ddd; }
    .header { background: #2c3e50; padding: 28px; text-align: center; }
    .header h1 { margin: 0; color: #fff; font-size: 26px; font-weight: normal; letter-spacing: 1px; }
    .header p { margin: 8px 0 0; color: rgba(255,255,255,0.75); font-size: 13px; }
    .content { padding: 24px; }
    .section { margin-bottom: 28px; }
    .section h2 { color: #2c3e50; font-size: 17px; margin: 0 0 12px; border-bottom: 2px solid #2c3e50; padding-bottom: 8px; }
    .stat { font-size: 15px; margin: 6px 0; }
    .stat b { color: #2c3e50; }
    ol { margin: 0; padding-left: 22px; }
    li { margin: 5px 0; font-size: 14px; }
    .meta { color: #888; font-size: 12px; }
    .footer { background: #ecf0f1; padding: 16px; text-align: center; font-size: 12px; color: #888; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>The Weeklypedia</h1>
      <p>Issue {{.issue_number}} &mdash; {{.language}} Edition{{if .date}} &mdash; {{.date}}{{end}}</p>
    </div>
    <div class="content">
      <div class="section">
        <h2>This Week in Numbers</h2>
        {{if .total_edits}}<p class="stat"><b>{{commaInt .total_edits}}</b> edits</p>{{end}}
        {{if .total_editors}}<p class="stat"><b>{{commaInt .total_editors}}</b> contributing editors</p>{{end}}
        {{if .new_article_count}}<p class="stat"><b>{{commaInt .new_article_count}}</b> new articles</p>{{end}}
      </div>
      {{with .most_edited}}
      <div class="section">
        <h2>Most Edited Articles</h2>
        <ol>
          {{range .}}<li>{{.title}}{{if .edits}} <span class="meta">({{commaInt .edits}} edits)</span>{{end}}</li>
          {{end}}
        </ol>
      </div>
      {{end}}
      {{with .new_articles}}
      <div class="section">
        <h2>New Articles</h2>
        <ol>
          {{range .}}<li>{{.title}}</li>
          {{end}}
        </ol>
      </div>
      {{end}}
      {{with .talkiest}}
      <div class="section">
        <h2>Liveliest Discussions</h2>
        <ol>
          {{range .}}<li>{{.title}}{{if .edits}} <span class="meta">({{commaInt .edits}} talk edits)</span>{{end}}</li>
          {{end}}
        </ol>
      </div>
      {{end}}
    </div>
    <div class="footer">
      <p>The Weeklypedia &mdash; a digest of recent {{.language}} Wikipedia activity.</p>
    </div>
  </div>
</body>
</html>`

const digestTextTemplate = `THE WEEKLYPEDIA
Issue {{.issue_number}} - {{.language}} Edition{{if .date}} - {{.date}}{{end}}

THIS WEEK IN NUMBERS
{{if .total_edits}}  {{commaInt .total_edits}} edits
{{end}}{{if .total_editors}}  {{commaInt .total_editors}} contributing editors
{{end}}{{if .new_article_count}}  {{commaInt .new_article_count}} new articles
{{end}}
{{- with .most_edited}}

MOST EDITED ARTICLES
{{range .}}  * {{.title}}{{if .edits}} ({{commaInt .edits}} edits){{end}}
{{end}}{{end}}
{{- with .new_articles}}

NEW ARTICLES
{{range .}}  * {{.title}}
{{end}}{{end}}
{{- with .talkiest}}

LIVELIEST DISCUSSIONS
{{range .}}  * {{.title}}{{if .edits}} ({{commaInt .edits}} talk edits){{end}}
{{end}}{{end}}

--
The Weeklypedia - a digest of recent {{.language}} Wikipedia activity.
`
