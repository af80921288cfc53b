// Package renderer turns folio results into markdown reports, and markdown
// into terminal or HTML output.
package renderer

import (
	"bytes"
	"fmt"
	"html"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Terminal renders markdown for a terminal, with a style matching its background.
func Terminal(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("could not create terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("could not render markdown: %w", err)
	}
	return out, nil
}

// HTML renders markdown as a standalone HTML document.
func HTML(markdown, title string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("could not convert markdown: %w", err)
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, htmlHeader, html.EscapeString(title))
	b.Write(body.Bytes())
	b.WriteString(htmlFooter)
	return b.String(), nil
}

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: 2em auto; }
table { border-collapse: collapse; }
th, td { padding: 0.2em 0.8em; border-bottom: 1px solid #ddd; }
td { font-variant-numeric: tabular-nums; }
</style>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`
