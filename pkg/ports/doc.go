/*
Package ports defines the driven ports (interfaces) for the canvas engine.

These interfaces decouple the revision graph from external implementations, allowing
the engine to work with various model providers, storage backends and lock managers.

# Key Interfaces

  - ModelInvoker: Sends a prompt to a language model and returns its text.
  - StateStore: Responsible for persisting and loading session State.
  - ArtifactStore: Read access to the artifact of a session.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - RevisionEngine: The stateless engine consumed by hosts (HTTP, MCP, CLI).
*/
package ports
