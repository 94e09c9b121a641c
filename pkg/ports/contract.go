package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		art := domain.NewArtifact("Greeting", "Hello world").
			Append(domain.NewMarkdownVersion(0, "Greeting", "Hello, world."))
		state := domain.NewState(sessionID, art)
		state.Messages = append(state.Messages, domain.NewMessage(domain.RoleUser, "copyedit please"))

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.SessionID, loaded.SessionID)
		assert.Equal(t, state.Status, loaded.Status)
		require.NotNil(t, loaded.Artifact)
		assert.Equal(t, 2, loaded.Artifact.CurrentIndex)
		assert.Equal(t, art.Contents, loaded.Artifact.Contents)
		require.Len(t, loaded.Messages, 1)
		assert.Equal(t, "copyedit please", loaded.Messages[0].Content)
	})

	t.Run("Suspended Round Trip", func(t *testing.T) {
		id := sessionID + "-suspended"
		defer func() { _ = store.Delete(ctx, id) }()

		proposal := domain.NewProposedChange("world", "earth", domain.ChangeMetadata{
			Operation:     domain.OpUpdateHighlightedText,
			SelectedText:  "world",
			MarkdownBlock: "Hello world",
		}, 1)
		state := domain.NewState(id, domain.NewArtifact("t", "Hello world"))
		state.Status = domain.StatusSuspended
		state.Proposal = proposal
		state.Interrupt = &domain.Interrupt{Reason: "approval", NodeID: "updateHighlightedText", Proposal: proposal}

		require.NoError(t, store.Save(ctx, id, state))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.True(t, loaded.IsSuspended())
		require.NotNil(t, loaded.Proposal)
		assert.Equal(t, proposal.ID, loaded.Proposal.ID)
		assert.Equal(t, domain.DecisionUnset, loaded.Approval)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		id := sessionID + "-copy"
		defer func() { _ = store.Delete(ctx, id) }()

		require.NoError(t, store.Save(ctx, id, domain.NewState(id, domain.NewArtifact("t", "body"))))

		first, err := store.Load(ctx, id)
		require.NoError(t, err)
		first.Artifact.Contents[0].FullMarkdown = "mutated"

		second, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "body", second.Artifact.Contents[0].FullMarkdown)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, nil))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, nil))
		_ = store.Save(ctx, id2, domain.NewState(id2, nil))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunLockerContract verifies that a DistributedLocker provides mutual exclusion per key.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-lock-" + time.Now().Format("20060102150405")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, key, time.Second)
		require.NoError(t, err, "lock should be acquirable again after unlock")
		require.NoError(t, unlock(ctx))
	})

	t.Run("Held Lock Blocks Until Context Done", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		short, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
		defer cancel()

		_, err = locker.Lock(short, key, time.Second)
		assert.Error(t, err, "second lock on the same key must not be granted")
	})

	t.Run("Independent Keys", func(t *testing.T) {
		a, err := locker.Lock(ctx, key+"-a", time.Second)
		require.NoError(t, err)

		short, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		b, err := locker.Lock(short, key+"-b", time.Second)
		require.NoError(t, err, "a held key must not block other keys")

		require.NoError(t, a(ctx))
		require.NoError(t, b(ctx))
	})
}
