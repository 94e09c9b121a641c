package tui

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorDiff_Ascii(t *testing.T) {
	got := ColorDiff(termenv.Ascii, "Hello world\nbye\n", "Hello earth\nbye\n")
	assert.Equal(t, "- Hello world\n+ Hello earth\n  bye\n", got)
}

func TestColorDiff_TrueColor(t *testing.T) {
	got := ColorDiff(termenv.TrueColor, "a", "b")
	assert.Contains(t, got, "\x1b[")
	assert.Contains(t, got, "- a")
	assert.Contains(t, got, "+ b")
}

func TestPlainRenderer(t *testing.T) {
	out, err := PlainRenderer()("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(40)
	require.NoError(t, err)

	out, err := render("# Greeting\n\nHello world")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello world")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "____")
}
