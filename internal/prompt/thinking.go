package prompt

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

var thinkingMarkers = []string{"o1", "o3", "deepseek-r1", "qwq", "-thinking", "reasoner"}

// IsThinkingModel reports whether a model name belongs to a reasoning model
// that inlines its trace in the answer.
func IsThinkingModel(name string) bool {
	name = strings.ToLower(name)
	for _, m := range thinkingMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// SplitThinking separates a <think>...</think> trace from the answer.
// Text without a trace is returned unchanged as the response.
// An unterminated trace swallows the rest of the text.
func SplitThinking(text string) (thinking, response string) {
	start := strings.Index(text, thinkOpen)
	if start < 0 {
		return "", text
	}
	before := text[:start]
	rest := text[start+len(thinkOpen):]

	end := strings.Index(rest, thinkClose)
	if end < 0 {
		return strings.TrimSpace(rest), strings.TrimSpace(before)
	}
	thinking = strings.TrimSpace(rest[:end])
	response = strings.TrimSpace(before + rest[end+len(thinkClose):])
	return thinking, response
}
