package domain

// Request is the host input that starts a run.
type Request struct {
	// Message is the user's chat turn. It is appended to the conversation before routing.
	Message string `json:"request,omitempty"`
	Intent  Intent `json:"intent"`
}

// Resume is the host input that continues a suspended run.
// ProposalID must name the pending proposal.
type Resume struct {
	ProposalID string `json:"proposal_id"`
	Approved   bool   `json:"approved"`
}
