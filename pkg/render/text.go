package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nkp-tools/nkp-as-built/pkg/collector"
	"github.com/nkp-tools/nkp-as-built/pkg/projector"
)

// TextRenderer writes the plain-text report.
type TextRenderer struct {
	opts Options
}

// Render writes the platform summary once, then one block per cluster.
func (r *TextRenderer) Render(w io.Writer, inv *collector.Inventory) error {
	bw := bufio.NewWriter(w)

	heading := color.New(color.FgCyan, color.Bold)
	warning := color.New(color.FgYellow)
	if r.opts.Color {
		heading.EnableColor()
		warning.EnableColor()
	} else {
		heading.DisableColor()
		warning.DisableColor()
	}

	if inv.Platform != nil {
		tw := table.NewWriter()
		tw.SetTitle("Platform Summary")
		for _, f := range summaryFields(inv.Platform) {
			tw.AppendRow(table.Row{f.label, f.value})
		}
		fmt.Fprintln(bw, tw.Render())
		writeEvents(bw, warning, inv.Platform.Events)
	}

	for i := range inv.Clusters {
		report := &inv.Clusters[i]
		fmt.Fprintln(bw)
		for _, f := range clusterFields(report) {
			writeField(bw, heading, f)
		}
		writeEvents(bw, warning, report.Events)
	}

	return bw.Flush()
}

func writeField(w io.Writer, heading *color.Color, f field) {
	if !f.group {
		if f.label == "Cluster" {
			fmt.Fprintln(w, heading.Sprintf("%s: %s", f.label, f.value))
			return
		}
		fmt.Fprintf(w, "%s: %s\n", f.label, f.value)
		return
	}

	fmt.Fprintf(w, "%s:\n", f.label)
	for _, l := range f.lines {
		fmt.Fprintln(w, indentLine(l))
	}
}

func indentLine(l line) string {
	prefix := strings.Repeat("  ", l.depth+1)
	if l.bullet {
		prefix += "- "
	}
	return prefix + l.text
}

func writeEvents(w io.Writer, c *color.Color, events []projector.Event) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(w, "Diagnostics:")
	for _, l := range eventLines(events) {
		fmt.Fprintln(w, c.Sprint(indentLine(l)))
	}
}
