package web

import "html/template"

var pageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>sportident monitor</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<style>
body { font-family: monospace; background: #111; color: #ddd; padding: 2rem; }
.event { border-bottom: 1px solid #333; padding: 0.5rem 0; }
.event.reader_error { color: #e66; }
.event.card_readout { color: #6e6; }
</style>
</head>
<body>
<h1>sportident monitor</h1>
<div id="status">connecting…</div>
<div id="feed" data-on-load="@get('/events')"></div>
</body>
</html>
`))

var feedTemplate = template.Must(template.New("feed").Parse(`<div id="feed">
{{range .}}<div class="event {{.Kind}}">
<strong>{{.Timestamp.Format "15:04:05.000"}}</strong> [{{.Kind}}]
<pre>{{printf "%+v" .Payload}}</pre>
</div>
{{end}}
</div>
`))

var statusTemplate = template.Must(template.New("status").Parse(
	`<div id="status">{{.}}</div>`,
))
