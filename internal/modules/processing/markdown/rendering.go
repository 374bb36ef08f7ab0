// Package markdown renders article bodies to HTML.
package markdown

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in bodies is dropped (goldmark's default without WithUnsafe).
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

var (
	tagPattern   = regexp.MustCompile(`(?s)<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Render converts a markdown body into HTML. An empty body renders empty.
func Render(src string) (string, error) {
	text := strings.TrimSpace(src)
	if text == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Excerpt returns the first max runes of the body's visible text, with an
// ellipsis when it was cut.
func Excerpt(src string, max int) string {
	rendered, err := Render(src)
	if err != nil {
		rendered = src
	}
	text := html.UnescapeString(tagPattern.ReplaceAllString(rendered, " "))
	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "…"
}
