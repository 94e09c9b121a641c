package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/session"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Node  string `json:"node,omitempty"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrVersionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotSuspended),
		errors.Is(err, domain.ErrStaleProposal),
		errors.Is(err, domain.ErrProposalPending),
		errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoArtifact),
		errors.Is(err, domain.ErrUnsupportedContentType),
		errors.Is(err, domain.ErrNoOperationSelected),
		errors.Is(err, domain.ErrMissingHighlight),
		errors.Is(err, domain.ErrSelectionNotFound),
		errors.Is(err, domain.ErrMissingChangeData),
		errors.Is(err, domain.ErrMissingRequiredData),
		errors.Is(err, domain.ErrNoDecision),
		errors.Is(err, domain.ErrUnknownOperation),
		errors.Is(err, domain.ErrNoRoute):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func newErrorBody(err error) errorBody {
	body := errorBody{Error: err.Error()}
	var nodeErr *domain.NodeError
	if errors.As(err, &nodeErr) {
		body.Node = nodeErr.NodeID
	}
	return body
}
