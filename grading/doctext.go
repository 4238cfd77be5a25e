package grading

import (
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"
)

// OpenAPI descriptions allow CommonMark and a subset of HTML. Checks that
// measure description text normalize HTML to markdown first so markup does
// not inflate length measurements.

var (
	converterOnce sync.Once
	converter     *md.Converter
)

func htmlConverter() *md.Converter {
	converterOnce.Do(func() {
		converter = md.NewConverter("", true, nil)
	})
	return converter
}

// NormalizeDescription returns description text with HTML markup converted to
// markdown and surrounding whitespace trimmed. Plain text passes through
// unchanged; conversion failures fall back to the raw input.
func NormalizeDescription(text string) string {
	if !containsHTML(text) {
		return strings.TrimSpace(text)
	}
	converted, err := htmlConverter().ConvertString(text)
	if err != nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(converted)
}

// containsHTML reports whether the text parses to anything beyond plain
// character data.
func containsHTML(text string) bool {
	if !strings.Contains(text, "<") {
		return false
	}
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			return true
		}
	}
}
