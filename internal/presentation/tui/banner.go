package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Canvas ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ____                            ", "#818cf8"},
		{"  / ___|__ _ _ ____   ____ _ ___   ", "#a78bfa"},
		{" | |   / _` | '_ \\ \\ / / _` / __|  ", "#c084fc"},
		{" | |__| (_| | | | \\ V / (_| \\__ \\  ", "#e879f9"},
		{"  \\____\\__,_|_| |_|\\_/ \\__,_|___/  ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
