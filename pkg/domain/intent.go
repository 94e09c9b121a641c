package domain

// Highlight is a user selection inside the current body.
// SelectedText is the exact selected substring, MarkdownBlock the block that encloses it.
type Highlight struct {
	SelectedText  string `json:"selected_text"`
	MarkdownBlock string `json:"markdown_block"`
}

// Valid reports whether both parts of the selection are present.
func (h *Highlight) Valid() bool {
	return h != nil && h.SelectedText != "" && h.MarkdownBlock != ""
}

// Intent selects what the next run should do.
// The theme flags are mutually exclusive by convention; the first set flag wins.
type Intent struct {
	Language  bool       `json:"language,omitempty"`
	Format    bool       `json:"format,omitempty"`
	Copyedit  bool       `json:"copyedit,omitempty"`
	Highlight *Highlight `json:"highlighted_text,omitempty"`

	// RequireApproval makes a theme rewrite suspend for a decision instead of committing.
	RequireApproval bool `json:"require_approval,omitempty"`

	// ContextDocuments are plain-text documents offered to the model as extra context.
	ContextDocuments []string `json:"context_documents,omitempty"`
}

// Operation returns the selected theme operation in language, format, copyedit order.
// It returns the empty Operation when no flag is set.
func (i Intent) Operation() Operation {
	switch {
	case i.Language:
		return OpLanguage
	case i.Format:
		return OpFormat
	case i.Copyedit:
		return OpCopyedit
	}
	return ""
}

// IntentFor builds an Intent with the flag for a theme operation set.
func IntentFor(op Operation) Intent {
	var i Intent
	switch op {
	case OpLanguage:
		i.Language = true
	case OpFormat:
		i.Format = true
	case OpCopyedit:
		i.Copyedit = true
	}
	return i
}
