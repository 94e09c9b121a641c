/*
Package domain contains the core domain models of the canvas revision engine.

It defines the versioned artifact, the transient proposal and approval records,
and the execution State threaded through the revision graph. This package is
kept pure and free of I/O or persistence concerns, following Hexagonal
Architecture principles.

# Key Entities

  - Artifact: an append-only log of ContentVersions plus the active index.
  - ContentVersion: a tagged union, either a flat markdown body or a snapshot of Articles.
  - ProposedChange: an edit awaiting a human decision.
  - Decision: the tri-state approval signal (unset, approved, rejected).
  - State: the runtime snapshot of a run (artifact, intent, proposal, messages, status).
*/
package domain
