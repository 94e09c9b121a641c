package canvas_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canvas"
	"github.com/aretw0/canvas/pkg/adapters/scripted"
	"github.com/aretw0/canvas/pkg/domain"
)

func TestNew_RequiresModel(t *testing.T) {
	_, err := canvas.New(nil)
	assert.ErrorIs(t, err, canvas.ErrNoModel)
}

func TestEngine_Start(t *testing.T) {
	eng, err := canvas.New(scripted.NewEcho("echo"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		body      string
		wantTitle string
	}{
		{name: "heading", body: "# Plan\n\nbody", wantTitle: "Plan"},
		{name: "no heading", body: "just text", wantTitle: "Untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := eng.Start("s", tt.body, "Untitled")
			cur, err := s.Artifact.Current()
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, cur.Title)
			assert.Equal(t, 1, cur.Index)
			assert.Equal(t, domain.StatusTerminated, s.Status)
		})
	}
}

func TestEngine_OptionsReachRuntime(t *testing.T) {
	var commits, suspends int
	hooks := domain.LifecycleHooks{
		OnCommit:  func(context.Context, *domain.CommitEvent) { commits++ },
		OnSuspend: func(context.Context, *domain.SuspendEvent) { suspends++ },
	}

	eng, err := canvas.New(
		scripted.New("demo", []string{"Hello, world."}),
		canvas.WithLifecycleHooks(hooks),
		canvas.WithThemeApproval(),
	)
	require.NoError(t, err)

	ctx := context.Background()
	state, err := eng.Invoke(ctx, eng.Start("s", "Hello world", "t"), domain.Request{Intent: domain.IntentFor(domain.OpCopyedit)})
	require.NoError(t, err)
	require.True(t, state.IsSuspended(), "theme approval suspends copyedits")
	assert.Equal(t, 1, suspends)

	state, err = eng.Resume(ctx, state, domain.Resume{ProposalID: state.Proposal.ID, Approved: false})
	require.NoError(t, err)
	assert.Equal(t, 1, state.Artifact.Len())
	assert.Zero(t, commits)
}

func TestEngine_StrictRouting(t *testing.T) {
	eng, err := canvas.New(scripted.NewEcho("echo"), canvas.WithStrictRouting())
	require.NoError(t, err)

	_, err = eng.Invoke(context.Background(), eng.Start("s", "x", "t"), domain.Request{Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrNoRoute)

	g := eng.Inspect()
	assert.NotEmpty(t, g.Nodes)
}
