// Package diff renders line diffs between artifact versions and proposals.
package diff

import (
	"fmt"
	"strings"

	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/aretw0/canvas/pkg/domain"
)

// Op classifies a diff line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of a line-level diff.
type Line struct {
	Op   Op
	Text string
}

// Lines computes a line-level diff of a and b.
func Lines(a, b string) []Line {
	d := dmp.New()
	ca, cb, index := d.DiffLinesToChars(a, b)
	diffs := d.DiffCharsToLines(d.DiffMain(ca, cb, false), index)

	var out []Line
	for _, df := range diffs {
		op := Equal
		switch df.Type {
		case dmp.DiffInsert:
			op = Insert
		case dmp.DiffDelete:
			op = Delete
		}
		for _, ln := range splitLines(df.Text) {
			out = append(out, Line{Op: op, Text: ln})
		}
	}
	return out
}

// Unified renders a single-hunk unified diff with the given file labels.
// Identical inputs render as an empty string.
func Unified(a, b, fromLabel, toLabel string) string {
	lines := Lines(a, b)

	var oldCount, newCount int
	changed := false
	for _, l := range lines {
		switch l.Op {
		case Equal:
			oldCount++
			newCount++
		case Delete:
			oldCount++
			changed = true
		case Insert:
			newCount++
			changed = true
		}
	}
	if !changed {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", fromLabel, toLabel)
	fmt.Fprintf(&sb, "@@ -%s +%s @@\n", hunkRange(oldCount), hunkRange(newCount))
	for _, l := range lines {
		sb.WriteString(prefix(l.Op))
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Proposal diffs the current body against the body with the proposal applied.
func Proposal(body string, p *domain.ProposedChange) (string, error) {
	updated, err := p.ApplyTo(body)
	if err != nil {
		return "", err
	}
	from := fmt.Sprintf("a/version-%d", p.BaseIndex)
	to := fmt.Sprintf("b/proposal-%s", p.ID)
	return Unified(body, updated, from, to), nil
}

// Versions diffs two stored versions of a markdown artifact.
func Versions(a *domain.Artifact, from, to int) (string, error) {
	va, err := a.Lookup(from)
	if err != nil {
		return "", err
	}
	vb, err := a.Lookup(to)
	if err != nil {
		return "", err
	}
	ma, err := va.Markdown()
	if err != nil {
		return "", err
	}
	mb, err := vb.Markdown()
	if err != nil {
		return "", err
	}
	return Unified(ma, mb, fmt.Sprintf("a/version-%d", from), fmt.Sprintf("b/version-%d", to)), nil
}

func prefix(op Op) string {
	switch op {
	case Insert:
		return "+"
	case Delete:
		return "-"
	}
	return " "
}

func hunkRange(n int) string {
	if n == 0 {
		return "0,0"
	}
	return fmt.Sprintf("1,%d", n)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
