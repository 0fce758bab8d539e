package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in model output is dropped, not passed through.
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ToHTML renders a Markdown summary for display in the browser.
func ToHTML(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := renderer.Convert([]byte(input), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return buf.String(), nil
}
