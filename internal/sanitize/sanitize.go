// Package sanitize turns model output written in markdown into plain text that
// Telegram displays without a parse mode.
package sanitize

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	blockTags = regexp.MustCompile(`<br\s*/?>|</?p>|</?div>|</?pre>|</?h[1-6]>|</?[uo]l>|<hr\s*/?>|</?blockquote>`)
	listItem  = regexp.MustCompile(`\s*<li>`)
	listEnd   = regexp.MustCompile(`</li>`)
	blankRuns = regexp.MustCompile(`\n\s*\n+`)
)

// Policy strips markdown formatting and any HTML from text.
type Policy struct {
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
}

// NewPlainTextPolicy creates a Policy that keeps no markup at all.
func NewPlainTextPolicy() *Policy {
	return &Policy{
		policy:   bluemonday.StrictPolicy(),
		markdown: goldmark.New(),
	}
}

// PlainText renders text as markdown and returns its visible text. Paragraphs
// and list items stay on separate lines. On a render failure text is returned
// unchanged.
func (p *Policy) PlainText(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(text), &buf); err != nil {
		return text
	}

	out := listItem.ReplaceAllString(buf.String(), "\n- ")
	out = listEnd.ReplaceAllString(out, "")
	out = blockTags.ReplaceAllString(out, "\n")
	out = p.policy.Sanitize(out)
	out = blankRuns.ReplaceAllString(out, "\n\n")
	out = html.UnescapeString(out)

	return strings.TrimSpace(out)
}
