package view

import (
	"bytes"
	"html/template"
)

// StatusPageData provides the dynamic fields of the public error page.
type StatusPageData struct {
	Status  int
	Title   string
	Message string
	Code    string
}

var statusPageTmpl = template.Must(template.New("status_page").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<meta name="viewport" content="width=device-width, initial-scale=1" />
	<title>{{.Status}} {{.Title}}</title>
	<style>
		:root {
			--bg: #090a0f;
			--card: rgba(255, 255, 255, 0.05);
			--border: rgba(255, 255, 255, 0.15);
			--text: #e7ecff;
			--muted: #a1acc5;
			--accent: #7dd3fc;
			font-family: "Inter", -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
		}
		* { box-sizing: border-box; }
		body {
			margin: 0;
			min-height: 100vh;
			display: flex;
			align-items: center;
			justify-content: center;
			background: radial-gradient(circle at 20% 20%, #111827, #030712 60%);
			color: var(--text);
		}
		.card {
			background: var(--card);
			border: 1px solid var(--border);
			border-radius: 18px;
			padding: 32px;
			width: min(520px, 92vw);
			box-shadow: 0 45px 100px rgba(0,0,0,0.35);
		}
		.status {
			font-size: 0.82rem;
			letter-spacing: 0.08em;
			text-transform: uppercase;
			color: var(--accent);
		}
		h1 {
			font-size: 1.5rem;
			margin: 6px 0;
		}
		p {
			color: var(--muted);
			margin: 0;
		}
		code {
			color: var(--text);
		}
	</style>
</head>
<body>
	<div class="card">
		<div class="status">{{.Status}}</div>
		<h1>{{.Title}}</h1>
		<p>{{.Message}}{{if .Code}} <code>/{{.Code}}</code>{{end}}</p>
	</div>
</body>
</html>
`))

// RenderStatusPage expands the status page template with the provided data.
func RenderStatusPage(data StatusPageData) (string, error) {
	var buf bytes.Buffer
	if err := statusPageTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NotFoundPage renders the page served when a short code does not resolve.
func NotFoundPage(code string) (string, error) {
	return RenderStatusPage(StatusPageData{
		Status:  404,
		Title:   "Not found",
		Message: "There is no short link at",
		Code:    code,
	})
}
