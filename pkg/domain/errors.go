package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoArtifact is returned when an operation requires an artifact and none exists.
	ErrNoArtifact = errors.New("no artifact found")

	// ErrUnsupportedContentType is returned when the current version is not the expected variant.
	ErrUnsupportedContentType = errors.New("unsupported artifact content type")

	// ErrNoOperationSelected is returned when a theme rewrite runs without language, format or copyedit set.
	ErrNoOperationSelected = errors.New("no theme operation selected")

	// ErrMissingHighlight is returned when a highlighted-text update has no valid selection.
	ErrMissingHighlight = errors.New("highlighted text not provided")

	// ErrSelectionNotFound is returned when the text a proposal expects is absent from the current body.
	ErrSelectionNotFound = errors.New("selected text not found in current content")

	// ErrMissingChangeData is returned when apply runs without an artifact or proposal.
	ErrMissingChangeData = errors.New("missing required data to apply changes")

	// ErrMissingRequiredData is returned when a proposal lacks its current or proposed text.
	ErrMissingRequiredData = errors.New("missing text data in proposed changes")

	// ErrNoDecision is returned when the approval gate runs before a decision exists.
	ErrNoDecision = errors.New("no approval result available")

	// ErrUnknownOperation is returned when a proposal carries an unrecognized operation tag.
	ErrUnknownOperation = errors.New("unknown change type")

	// ErrNoRoute is returned by strict routing when neither a highlight nor a theme flag is set.
	ErrNoRoute = errors.New("no route for request")

	// ErrNotSuspended is returned when resuming a run that is not awaiting approval.
	ErrNotSuspended = errors.New("run is not awaiting approval")

	// ErrStaleProposal is returned when a resumption names a proposal other than the pending one.
	ErrStaleProposal = errors.New("stale proposal")

	// ErrProposalPending is returned when a new request would overwrite a pending proposal.
	ErrProposalPending = errors.New("a proposal is already awaiting approval")

	// ErrVersionNotFound is returned when a version index does not exist in the artifact.
	ErrVersionNotFound = errors.New("content version not found")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")
)

// NodeError attaches the failing node to an error raised during a run.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
