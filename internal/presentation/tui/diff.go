package tui

import (
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/canvas/internal/presentation/diff"
)

// ColorDiff renders a line diff with green insertions and red deletions.
// Colors degrade to plain prefixes under an Ascii profile.
func ColorDiff(p termenv.Profile, a, b string) string {
	var sb strings.Builder
	for _, l := range diff.Lines(a, b) {
		switch l.Op {
		case diff.Insert:
			sb.WriteString(p.String("+ " + l.Text).Foreground(p.Color("#22c55e")).String())
		case diff.Delete:
			sb.WriteString(p.String("- " + l.Text).Foreground(p.Color("#ef4444")).String())
		default:
			sb.WriteString(p.String("  " + l.Text).Faint().String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
