package render

import (
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nkp-tools/nkp-as-built/pkg/collector"
)

const defaultHTMLTitle = "NKP Cluster Details"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table.go-pretty-table { border-collapse: collapse; margin-bottom: 2em; min-width: 40em; }
table.go-pretty-table td, table.go-pretty-table th { border: 1px solid #999; padding: 0.3em 0.6em; text-align: left; vertical-align: top; }
table.go-pretty-table td:first-child { font-weight: bold; white-space: nowrap; }
footer { color: #666; font-size: 0.8em; }
</style>
</head>
<body>
<h1>{{ .Title }}</h1>
{{- if .Summary }}
<h2>Platform Summary</h2>
{{ .Summary }}
{{- end }}
{{- range .Clusters }}
<h2>{{ .Name }}</h2>
{{ .Table }}
{{- end }}
<footer>Run {{ .RunID }} collected at {{ .CollectedAt }}</footer>
</body>
</html>
`))

type htmlCluster struct {
	Name  string
	Table template.HTML
}

type htmlPage struct {
	Title       string
	Summary     template.HTML
	Clusters    []htmlCluster
	RunID       string
	CollectedAt string
}

// HTMLRenderer writes a standalone HTML document with one table per cluster.
type HTMLRenderer struct {
	opts Options
}

// Render writes the page. Cell text is escaped by the table writer.
func (r *HTMLRenderer) Render(w io.Writer, inv *collector.Inventory) error {
	page := htmlPage{
		Title: r.opts.Title,
		RunID: inv.RunID,
	}
	if page.Title == "" {
		page.Title = defaultHTMLTitle
	}
	if !inv.CollectedAt.IsZero() {
		page.CollectedAt = inv.CollectedAt.Format(time.RFC3339)
	}

	if inv.Platform != nil {
		rows := summaryFields(inv.Platform)
		if len(inv.Platform.Events) > 0 {
			rows = append(rows, group("Diagnostics", eventLines(inv.Platform.Events)...))
		}
		page.Summary = htmlTable(rows)
	}

	for i := range inv.Clusters {
		report := &inv.Clusters[i]
		rows := clusterFields(report)
		if len(report.Events) > 0 {
			rows = append(rows, group("Diagnostics", eventLines(report.Events)...))
		}
		page.Clusters = append(page.Clusters, htmlCluster{
			Name:  report.ClusterName,
			Table: htmlTable(rows),
		})
	}

	return pageTemplate.Execute(w, page)
}

// htmlTable renders label/value rows. The table writer escapes cell text and
// turns newlines into line breaks, so the result is safe to embed as-is.
func htmlTable(fields []field) template.HTML {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Field", "Value"})
	for _, f := range fields {
		tw.AppendRow(table.Row{f.label, htmlValue(f)})
	}
	tw.Style().HTML.EscapeText = true
	return template.HTML(tw.RenderHTML()) //nolint:gosec // cell text is escaped by go-pretty
}

func htmlValue(f field) string {
	if !f.group {
		return f.value
	}
	parts := make([]string, 0, len(f.lines))
	for _, l := range f.lines {
		prefix := strings.Repeat("    ", l.depth)
		if l.bullet {
			prefix += "• "
		}
		parts = append(parts, prefix+l.text)
	}
	return strings.Join(parts, "\n")
}
