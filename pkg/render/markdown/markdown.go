// Package markdown renders model-written Markdown explanations for the
// browser (HTML) and the terminal (ANSI-styled text).
//
// Raw HTML inside the Markdown is dropped from HTML output, so model
// replies can be served without further sanitizing.
package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// ToHTML converts Markdown to an HTML fragment. GitHub-flavored tables,
// task lists and strikethrough are supported.
func ToHTML(source string) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Page wraps an HTML fragment in a minimal standalone document.
func Page(title string, fragment []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", stdhtml.EscapeString(title))
	buf.WriteString("<style>body{font-family:ui-sans-serif,system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem;line-height:1.6;color:#1f2937}" +
		"h2{border-bottom:1px solid #c7d2fe;padding-bottom:.25rem}pre{background:#f3f4f6;padding:1rem;overflow-x:auto}</style>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.Write(fragment)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

// ToTerminal renders Markdown with ANSI styling for a terminal of the given
// width. The style follows the terminal background.
func ToTerminal(source string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("init terminal renderer: %w", err)
	}
	out, err := r.Render(source)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// ToPlain renders Markdown for non-terminal output, without color codes.
func ToPlain(source string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("init plain renderer: %w", err)
	}
	return r.Render(source)
}
