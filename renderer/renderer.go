// Package renderer renders capital gains reports as markdown, and prints them
// for a terminal or as HTML.
package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format is an output format for a markdown report.
type Format string

const (
	Terminal Format = "terminal"
	Markdown Format = "markdown"
	HTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []string{string(Terminal), string(Markdown), string(HTML)}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Terminal, Markdown, HTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q, expected one of %v", s, Formats)
}

// Print writes the markdown md to w in format f.
func Print(w io.Writer, md string, f Format) error {
	switch f {
	case Markdown:
		_, err := io.WriteString(w, md)
		return err
	case HTML:
		return toHTML(w, md)
	case Terminal:
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return err
		}
		out, err := r.Render(md)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("unknown format %q", f)
}

// toHTML converts GitHub flavored markdown, tables included, to HTML.
func toHTML(w io.Writer, md string) error {
	var buf bytes.Buffer
	if err := goldmark.New(goldmark.WithExtensions(extension.GFM)).Convert([]byte(md), &buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
