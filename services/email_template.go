package services

import (
	"fmt"
	"html/template"
	"strings"
)

type emailMetaItem struct {
	Label string
	Value string
}

// buildEmailTemplate renders a single-column HTML mail with an optional
// key/value table and call-to-action button.
func buildEmailTemplate(subject string, paragraphs []string, meta []emailMetaItem, buttonText, buttonURL string) string {
	var content strings.Builder
	for _, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		escaped := strings.ReplaceAll(template.HTMLEscapeString(trimmed), "\n", "<br />")
		content.WriteString(`<p style="margin:0 0 18px 0;line-height:1.7;">`)
		content.WriteString(escaped)
		content.WriteString(`</p>`)
	}

	var metaSection strings.Builder
	rows := make([]emailMetaItem, 0, len(meta))
	for _, item := range meta {
		label := strings.TrimSpace(item.Label)
		value := strings.TrimSpace(item.Value)
		if label == "" || value == "" {
			continue
		}
		rows = append(rows, emailMetaItem{Label: label, Value: value})
	}
	if len(rows) > 0 {
		metaSection.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="border:1px solid #e5e7eb;border-radius:12px;background-color:#f9fafb;margin:0 0 24px 0;"><tbody>`)
		for i, row := range rows {
			border := "border-bottom:1px solid #e5e7eb;"
			if i == len(rows)-1 {
				border = ""
			}
			metaSection.WriteString(fmt.Sprintf(`<tr><td style="padding:12px 16px;font-size:13px;color:#6b7280;width:38%%;%s">%s</td><td style="padding:12px 16px;font-size:15px;color:#111827;font-weight:600;%s">%s</td></tr>`,
				border, template.HTMLEscapeString(row.Label), border, template.HTMLEscapeString(row.Value)))
		}
		metaSection.WriteString(`</tbody></table>`)
	}

	buttonSection := ""
	if strings.TrimSpace(buttonText) != "" && strings.TrimSpace(buttonURL) != "" {
		buttonSection = fmt.Sprintf(`<div style="text-align:center;margin:12px 0 24px 0;"><a href="%s" style="display:inline-block;padding:12px 28px;background-color:#2563eb;color:#ffffff;text-decoration:none;border-radius:999px;font-weight:600;">%s</a></div>`,
			template.HTMLEscapeString(buttonURL), template.HTMLEscapeString(buttonText))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
<div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px;">
<h1 style="margin:0;font-size:22px;font-weight:700;color:#111827;">%s</h1>
<div style="margin-top:20px;color:#1f2937;font-size:16px;">%s</div>
%s
%s
</div>
</div>
</body>
</html>`, template.HTMLEscapeString(subject), template.HTMLEscapeString(subject), content.String(), metaSection.String(), buttonSection)
}
