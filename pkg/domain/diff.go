package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentNodeID *string          `json:"current_node_id,omitempty"`
	Status        *ExecutionStatus `json:"status,omitempty"`

	// Versions contains only versions appended since the old state.
	// The history is append-only so nothing else can change.
	Versions     []ContentVersion `json:"versions,omitempty"`
	CurrentIndex *int             `json:"current_index,omitempty"`

	// Proposal is set when a new proposal appeared; ProposalCleared when the pending one went away.
	Proposal        *ProposedChange `json:"proposed_changes,omitempty"`
	ProposalCleared bool            `json:"proposal_cleared,omitempty"`

	Messages []Message `json:"messages,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.CurrentNodeID != newState.CurrentNodeID {
		diff.CurrentNodeID = &newState.CurrentNodeID
	}
	if oldState == nil || oldState.Status != newState.Status {
		diff.Status = &newState.Status
	}

	diffArtifact(diff, oldState, newState)
	diffProposal(diff, oldState, newState)
	diff.Messages = diffMessages(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffArtifact(diff *StateDiff, old, new *State) {
	var oldArt *Artifact
	if old != nil {
		oldArt = old.Artifact
	}
	newArt := new.Artifact
	if newArt == nil {
		return
	}

	known := make(map[int]bool, oldArt.Len())
	if oldArt != nil {
		for _, v := range oldArt.Contents {
			known[v.Index] = true
		}
	}
	for _, v := range newArt.Contents {
		if !known[v.Index] {
			diff.Versions = append(diff.Versions, v.clone())
		}
	}

	if oldArt == nil || oldArt.CurrentIndex != newArt.CurrentIndex {
		idx := newArt.CurrentIndex
		diff.CurrentIndex = &idx
	}
}

func diffProposal(diff *StateDiff, old, new *State) {
	var oldID, newID string
	if old != nil && old.Proposal != nil {
		oldID = old.Proposal.ID
	}
	if new.Proposal != nil {
		newID = new.Proposal.ID
	}
	if oldID == newID {
		return
	}
	if newID != "" {
		diff.Proposal = new.Proposal.Clone()
		return
	}
	diff.ProposalCleared = true
}

// diffMessages assumes the conversation log is append-only.
func diffMessages(old, new *State) []Message {
	if len(new.Messages) == 0 {
		return nil
	}
	if old == nil {
		return append([]Message(nil), new.Messages...)
	}
	if len(new.Messages) > len(old.Messages) {
		return append([]Message(nil), new.Messages[len(old.Messages):]...)
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentNodeID == nil &&
		d.Status == nil &&
		len(d.Versions) == 0 &&
		d.CurrentIndex == nil &&
		d.Proposal == nil &&
		!d.ProposalCleared &&
		len(d.Messages) == 0
}
