// Package markdown parses artifact bodies with goldmark.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ToHTML renders markdown as an HTML fragment.
func ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Title returns the text of the first heading, preferring level 1.
// It returns fallback when the document has no heading.
func Title(src, fallback string) string {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	var first string
	bestLevel := 7
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level < bestLevel {
			bestLevel = h.Level
			first = inlineText(h, source)
		}
		if h.Level == 1 {
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})

	if t := strings.TrimSpace(first); t != "" {
		return t
	}
	return fallback
}

// Blocks returns the raw source of every leaf block (paragraphs, headings, code).
func Blocks(src string) []string {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := n.Lines()
		if lines == nil || lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		start := lines.At(0).Start
		stop := lines.At(lines.Len() - 1).Stop
		out = append(out, strings.TrimRight(string(source[start:stop]), "\n"))
		return ast.WalkSkipChildren, nil
	})
	return out
}

// BlockContaining returns the first leaf block that contains selected.
func BlockContaining(src, selected string) (string, bool) {
	if selected == "" {
		return "", false
	}
	for _, b := range Blocks(src) {
		if strings.Contains(b, selected) {
			return b, true
		}
	}
	return "", false
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
