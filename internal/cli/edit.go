package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/canvas/internal/presentation/markdown"
	"github.com/aretw0/canvas/internal/presentation/tui"
	"github.com/aretw0/canvas/pkg/domain"
)

// ErrAborted is returned when the approval prompt gets no answer.
var ErrAborted = errors.New("edit aborted")

// EditOptions describes one interactive revision of a markdown file.
type EditOptions struct {
	Path string

	// Operation is a theme rewrite; leave empty with Selection set for a highlight edit.
	Operation domain.Operation
	Selection string
	Request   string

	// SessionID persists the revision history in the configured store.
	SessionID string

	// AutoApprove answers yes without prompting.
	AutoApprove bool

	Input   io.Reader
	Output  io.Writer
	Profile termenv.Profile
	// Render formats the final body for display. Nil skips the preview.
	Render func(string) (string, error)
}

// EditResult reports the outcome of Edit.
type EditResult struct {
	State   *domain.State
	Written bool
}

// Edit runs one revision against the file at opts.Path, shows a colored diff of
// any proposal, asks for approval and writes the accepted body back.
func Edit(ctx context.Context, st *Stack, opts EditOptions) (*EditResult, error) {
	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.Path, err)
	}
	original := string(data)

	req, err := buildRequest(original, opts)
	if err != nil {
		return nil, err
	}

	state, err := loadState(ctx, st, opts, original)
	if err != nil {
		return nil, err
	}

	state, err = st.Engine.Invoke(ctx, state, req)
	if err != nil {
		return nil, err
	}

	if state.IsSuspended() {
		state, err = decide(ctx, st, state, original, opts)
		if err != nil {
			return nil, err
		}
	} else if body := currentBody(state); body != original {
		fmt.Fprint(opts.Output, tui.ColorDiff(opts.Profile, original, body))
	}

	if opts.SessionID != "" {
		if err := st.Sessions.Save(ctx, opts.SessionID, state); err != nil {
			return nil, err
		}
	}

	res := &EditResult{State: state}
	body := currentBody(state)
	if body == original {
		printSystemMessage(opts.Output, "No changes written.")
		return res, nil
	}

	if err := writeFile(opts.Path, body); err != nil {
		return nil, err
	}
	res.Written = true
	printSystemMessage(opts.Output, "Wrote version %d to %s.", state.Artifact.CurrentIndex, opts.Path)

	if opts.Render != nil {
		if out, err := opts.Render(body); err == nil {
			fmt.Fprintln(opts.Output, strings.TrimSpace(out))
		}
	}
	return res, nil
}

func buildRequest(body string, opts EditOptions) (domain.Request, error) {
	req := domain.Request{Message: opts.Request}
	switch {
	case opts.Selection != "":
		block, ok := markdown.BlockContaining(body, opts.Selection)
		if !ok {
			return req, fmt.Errorf("%w: %q", domain.ErrSelectionNotFound, opts.Selection)
		}
		req.Intent.Highlight = &domain.Highlight{SelectedText: opts.Selection, MarkdownBlock: block}
	case opts.Operation.IsTheme():
		req.Intent = domain.IntentFor(opts.Operation)
	case opts.Operation == domain.OpUpdateHighlightedText:
		return req, domain.ErrMissingHighlight
	case opts.Operation == "":
		return req, domain.ErrNoOperationSelected
	default:
		return req, fmt.Errorf("%w: %q", domain.ErrUnknownOperation, opts.Operation)
	}
	return req, nil
}

// loadState starts a fresh session, or resumes a stored one and records the
// file as a new version when it changed outside canvas.
func loadState(ctx context.Context, st *Stack, opts EditOptions, body string) (*domain.State, error) {
	fallback := strings.TrimSuffix(filepath.Base(opts.Path), filepath.Ext(opts.Path))
	if opts.SessionID == "" {
		return st.Engine.Start("edit", body, fallback), nil
	}

	fresh := st.Engine.Start(opts.SessionID, body, fallback)
	state, err := st.Sessions.LoadOrStart(ctx, opts.SessionID, fresh.Artifact)
	if err != nil {
		return nil, err
	}
	if currentBody(state) != body {
		cur, err := state.Artifact.Current()
		if err != nil {
			return nil, err
		}
		if _, err := cur.Markdown(); err != nil {
			return nil, fmt.Errorf("session %s: %w", opts.SessionID, err)
		}
		state = state.Clone()
		state.Artifact = state.Artifact.Append(cur.WithMarkdown(body))
	}
	return state, nil
}

func decide(ctx context.Context, st *Stack, state *domain.State, body string, opts EditOptions) (*domain.State, error) {
	p := state.Proposal
	proposed, err := p.ApplyTo(body)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(opts.Output, tui.ColorDiff(opts.Profile, body, proposed))

	approved := opts.AutoApprove
	if !approved {
		approved, err = confirm(opts.Input, opts.Output, "Apply this change? [y/N] ")
		if err != nil {
			return nil, err
		}
	}
	return st.Engine.Resume(ctx, state, domain.Resume{ProposalID: p.ID, Approved: approved})
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if in == nil {
		return false, ErrAborted
	}
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return false, ErrAborted
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func currentBody(s *domain.State) string {
	cur, err := s.Artifact.Current()
	if err != nil {
		return ""
	}
	body, _ := cur.Markdown()
	return body
}

// writeFile keeps the file mode of an existing file.
func writeFile(path, body string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(body), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
