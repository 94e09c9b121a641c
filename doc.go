/*
Package canvas is a revision engine for LLM-edited markdown artifacts.

A session holds an append-only Artifact: every accepted revision becomes a new
ContentVersion and older versions stay addressable for undo and redo. A run is a
small state machine. The router picks a revision node from the request intent,
the node formats a prompt and calls the model, and the result is either
committed as a new version or held back as a ProposedChange while the run
suspends for a human decision.

# Interrupt and resume

Highlighted-text edits always suspend. The suspended state carries an Interrupt
naming the pending proposal; the host persists it (see pkg/session) and later
calls Resume with the proposal ID and a decision. A decision for any other
proposal is rejected with domain.ErrStaleProposal.

# Usage

	model := scripted.NewEcho("echo")
	eng, err := canvas.New(model)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state := eng.Start("session-123", "# Notes\n\nHello world", "Untitled")

	state, err = eng.Invoke(ctx, state, domain.Request{
		Message: "make it planetary",
		Intent: domain.Intent{Highlight: &domain.Highlight{
			SelectedText:  "world",
			MarkdownBlock: "Hello world",
		}},
	})
	if err != nil {
		log.Fatal(err)
	}

	if state.IsSuspended() {
		state, err = eng.Resume(ctx, state, domain.Resume{
			ProposalID: state.Proposal.ID,
			Approved:   true,
		})
	}

Hosts for HTTP (pkg/adapters/http) and MCP (pkg/adapters/mcp) wrap the same
engine behind a session manager.
*/
package canvas
