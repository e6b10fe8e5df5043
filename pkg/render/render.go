package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/nkp-tools/nkp-as-built/pkg/collector"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format '%s'. Valid formats are: text, html, json", s)
	}
}

// Renderer writes an inventory in one output format.
type Renderer interface {
	Render(w io.Writer, inv *collector.Inventory) error
}

// Options tunes rendering.
type Options struct {
	// Color enables ANSI colours in text output.
	Color bool
	// Title heads the HTML document.
	Title string
}

// New returns the renderer for format.
func New(format Format, opts Options) (Renderer, error) {
	switch format {
	case FormatText:
		return &TextRenderer{opts: opts}, nil
	case FormatHTML:
		return &HTMLRenderer{opts: opts}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
