package utils

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// TextProcessor renders company descriptions from markdown to sanitized HTML.
type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewTextProcessor() *TextProcessor {
	md := goldmark.New(
		// raw html is escaped by goldmark and anything else is stripped by the policy
		goldmark.WithRendererOptions(html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.Table),
	)

	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowURLSchemes("http", "https", "mailto", "tel")

	return &TextProcessor{md: md, policy: p}
}

// Render converts markdown to sanitized HTML. Empty input renders to "".
func (tp *TextProcessor) Render(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(tp.policy.Sanitize(buf.String())), nil
}
