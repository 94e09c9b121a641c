package domain

import "fmt"

// ContentKind discriminates the variants of a ContentVersion.
type ContentKind string

const (
	// KindMarkdown is a single flat markdown body.
	KindMarkdown ContentKind = "text"
	// KindArticles is a snapshot of several articles versioned together.
	KindArticles ContentKind = "articles"
)

// Article is a sub-document of a KindArticles version.
type Article struct {
	Title        string `json:"title"`
	Author       string `json:"author,omitempty"`
	FullMarkdown string `json:"full_markdown"`
}

// ContentVersion is one immutable entry in the artifact history.
// FullMarkdown is only meaningful for KindMarkdown, Articles only for KindArticles.
type ContentVersion struct {
	Index        int         `json:"index"`
	Kind         ContentKind `json:"type"`
	Title        string      `json:"title"`
	FullMarkdown string      `json:"full_markdown,omitempty"`
	Articles     []Article   `json:"articles,omitempty"`
}

// NewMarkdownVersion builds a flat markdown version.
func NewMarkdownVersion(index int, title, markdown string) ContentVersion {
	return ContentVersion{
		Index:        index,
		Kind:         KindMarkdown,
		Title:        title,
		FullMarkdown: markdown,
	}
}

// NewArticlesVersion builds a multi-article version.
func NewArticlesVersion(index int, title string, articles []Article) ContentVersion {
	return ContentVersion{
		Index:    index,
		Kind:     KindArticles,
		Title:    title,
		Articles: append([]Article(nil), articles...),
	}
}

// Markdown returns the flat body of a KindMarkdown version.
func (v ContentVersion) Markdown() (string, error) {
	switch v.Kind {
	case KindMarkdown:
		return v.FullMarkdown, nil
	case KindArticles:
		return "", fmt.Errorf("%w: version %d holds articles", ErrUnsupportedContentType, v.Index)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, v.Kind)
	}
}

// WithMarkdown returns a copy of a KindMarkdown version carrying a new body.
func (v ContentVersion) WithMarkdown(markdown string) ContentVersion {
	out := v.clone()
	out.FullMarkdown = markdown
	return out
}

// WithArticles returns a copy of a KindArticles version carrying new articles.
func (v ContentVersion) WithArticles(articles []Article) ContentVersion {
	out := v.clone()
	out.Articles = append([]Article(nil), articles...)
	return out
}

func (v ContentVersion) clone() ContentVersion {
	out := v
	if v.Articles != nil {
		out.Articles = append([]Article(nil), v.Articles...)
	}
	return out
}

// Artifact is the versioned document edited in a conversation.
// Contents is append-only; CurrentIndex (1-based) selects the active version.
type Artifact struct {
	CurrentIndex int              `json:"current_index"`
	Contents     []ContentVersion `json:"contents"`
}

// NewArtifact creates an artifact with a single markdown version at index 1.
func NewArtifact(title, markdown string) *Artifact {
	return &Artifact{
		CurrentIndex: 1,
		Contents:     []ContentVersion{NewMarkdownVersion(1, title, markdown)},
	}
}

// NewArticlesArtifact creates an artifact with a single articles version at index 1.
func NewArticlesArtifact(title string, articles []Article) *Artifact {
	return &Artifact{
		CurrentIndex: 1,
		Contents:     []ContentVersion{NewArticlesVersion(1, title, articles)},
	}
}

// Len returns the number of versions in the history.
func (a *Artifact) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Contents)
}

// Lookup returns the version with the given index.
func (a *Artifact) Lookup(index int) (ContentVersion, error) {
	if a.Len() == 0 {
		return ContentVersion{}, ErrNoArtifact
	}
	for _, v := range a.Contents {
		if v.Index == index {
			return v.clone(), nil
		}
	}
	return ContentVersion{}, fmt.Errorf("%w: index %d", ErrVersionNotFound, index)
}

// Current returns the active version.
// If CurrentIndex matches no entry it falls back to the last entry in the log.
func (a *Artifact) Current() (ContentVersion, error) {
	if a.Len() == 0 {
		return ContentVersion{}, ErrNoArtifact
	}
	if v, err := a.Lookup(a.CurrentIndex); err == nil {
		return v, nil
	}
	return a.Contents[len(a.Contents)-1].clone(), nil
}

// CurrentIsValid reports whether CurrentIndex names an existing version.
func (a *Artifact) CurrentIsValid() bool {
	_, err := a.Lookup(a.CurrentIndex)
	return err == nil
}

// NextIndex returns max(existing indices) + 1.
func (a *Artifact) NextIndex() int {
	highest := 0
	if a != nil {
		for _, v := range a.Contents {
			if v.Index > highest {
				highest = v.Index
			}
		}
	}
	return highest + 1
}

// Append returns a new artifact with v added at NextIndex and made current.
// The receiver is left untouched.
func (a *Artifact) Append(v ContentVersion) *Artifact {
	next := a.Clone()
	if next == nil {
		next = &Artifact{}
	}
	entry := v.clone()
	entry.Index = next.NextIndex()
	next.Contents = append(next.Contents, entry)
	next.CurrentIndex = entry.Index
	return next
}

// Select returns a new artifact whose CurrentIndex points at index.
// History is never truncated.
func (a *Artifact) Select(index int) (*Artifact, error) {
	if _, err := a.Lookup(index); err != nil {
		return nil, err
	}
	next := a.Clone()
	next.CurrentIndex = index
	return next, nil
}

// Clone returns a deep copy of the artifact.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	out := &Artifact{
		CurrentIndex: a.CurrentIndex,
		Contents:     make([]ContentVersion, len(a.Contents)),
	}
	for i, v := range a.Contents {
		out.Contents[i] = v.clone()
	}
	return out
}
