package automation

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-automation/catalog"
	"github.com/goliatone/go-automation/compiler"
	"github.com/goliatone/go-automation/graph"
	"github.com/goliatone/go-automation/keymap"
	"github.com/goliatone/go-automation/validate"
)

func sequentialIDs() graph.IDGenerator {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithLogger(NewFmtLogger(&bytes.Buffer{})),
	}
	ed, err := NewEditor(catalog.Default(), append(base, opts...)...)
	require.NoError(t, err)
	return ed
}

func inSurface(key string) keymap.Event {
	return keymap.Event{Key: key, InSurface: true}
}

func TestNewEditorRequiresRegistry(t *testing.T) {
	_, err := NewEditor(nil)
	require.Error(t, err)
	assert.Equal(t, ErrCodeNilRegistry, ErrorCode(err))

	_, err = NewEditor(&catalog.Registry{})
	require.Error(t, err)
	assert.Equal(t, catalog.ErrCodeEmptyRegistry, ErrorCode(err))
}

func TestNewEditorStartsWithDefaultTrigger(t *testing.T) {
	ed := newTestEditor(t)

	nodes := ed.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, graph.KindTrigger, nodes[0].Kind)
	assert.Equal(t, catalog.Default().DefaultTrigger().Key, nodes[0].TypeKey)
	assert.Equal(t, graph.Position{}, nodes[0].Position)
	assert.Empty(t, ed.Edges())
}

func TestHydrateFromDefinition(t *testing.T) {
	def := compiler.Definition{
		TriggerType:   catalog.TriggerDealStageChanged,
		TriggerConfig: map[string]any{"stage": "won"},
		Actions: []compiler.ActionDefinition{
			{Type: catalog.ActionCreateTask, Params: map[string]any{"title": "Kickoff"}},
			{Type: catalog.ActionAddTag, Params: map[string]any{"tag": "customer"}},
		},
	}
	ed := newTestEditor(t, WithInitialDefinition(def))

	nodes := ed.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, 0.0, nodes[0].Position.Y)
	assert.Equal(t, DefaultVerticalSpacing, nodes[1].Position.Y)
	assert.Equal(t, 2*DefaultVerticalSpacing, nodes[2].Position.Y)

	edges := ed.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, nodes[0].ID, edges[0].Source)
	assert.Equal(t, nodes[1].ID, edges[0].Target)
	assert.Equal(t, nodes[1].ID, edges[1].Source)
	assert.Equal(t, nodes[2].ID, edges[1].Target)

	compiled, err := ed.Compile()
	require.NoError(t, err)
	assert.Equal(t, def, compiled)
	assert.Empty(t, ed.Diagnostics())
}

func TestCompileWithOnlyTriggerFails(t *testing.T) {
	ed := newTestEditor(t)

	_, err := ed.Compile()
	require.Error(t, err)
	assert.Equal(t, compiler.ErrCodeNoActions, ErrorCode(err))
}

func TestAddActionThenSetType(t *testing.T) {
	ed := newTestEditor(t)

	action, err := ed.AddActionNode()
	require.NoError(t, err)
	require.NoError(t, ed.SetType(action.ID, catalog.ActionCreateTask))
	require.NoError(t, ed.SetConfig(action.ID, map[string]any{"title": "Call client"}))

	def, err := ed.Compile()
	require.NoError(t, err)
	assert.Equal(t, compiler.Definition{
		TriggerType:   catalog.Default().DefaultTrigger().Key,
		TriggerConfig: map[string]any{},
		Actions: []compiler.ActionDefinition{
			{Type: catalog.ActionCreateTask, Params: map[string]any{"title": "Call client"}},
		},
	}, def)
}

func TestAddActionNodePlacesAndWires(t *testing.T) {
	ed := newTestEditor(t, WithVerticalSpacing(100))
	trigger := ed.Trigger()

	a1, err := ed.AddActionNode()
	require.NoError(t, err)
	a2, err := ed.AddActionNode()
	require.NoError(t, err)

	assert.Equal(t, catalog.Default().DefaultAction().Key, a1.TypeKey)
	assert.Empty(t, a1.Config)
	assert.Equal(t, 100.0, a1.Position.Y)
	assert.Equal(t, 200.0, a2.Position.Y)

	edges := ed.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, graph.Edge{ID: edges[0].ID, Source: trigger.ID, Target: a1.ID}, edges[0])
	assert.Equal(t, graph.Edge{ID: edges[1].ID, Source: a1.ID, Target: a2.ID}, edges[1])

	// the tail is the lowest action, not the newest one
	require.NoError(t, ed.Move(a1.ID, graph.Position{Y: 500}))
	a3, err := ed.AddActionNode()
	require.NoError(t, err)
	assert.Equal(t, 600.0, a3.Position.Y)
	assert.Equal(t, a1.ID, ed.Edges()[2].Source)
}

func TestMoveReordersCompiledActions(t *testing.T) {
	ed := newTestEditor(t)
	a1, _ := ed.AddActionNode()
	a2, _ := ed.AddActionNode()
	require.NoError(t, ed.SetType(a1.ID, catalog.ActionAddTag))
	require.NoError(t, ed.SetType(a2.ID, catalog.ActionSendEmail))

	require.NoError(t, ed.Move(a1.ID, a2.Position.Below(DefaultVerticalSpacing)))

	def, err := ed.Compile()
	require.NoError(t, err)
	require.Len(t, def.Actions, 2)
	assert.Equal(t, catalog.ActionSendEmail, def.Actions[0].Type)
	assert.Equal(t, catalog.ActionAddTag, def.Actions[1].Type)
}

func TestConnectToTriggerIsRejected(t *testing.T) {
	ed := newTestEditor(t)
	action, _ := ed.AddActionNode()
	before := ed.Edges()

	_, err := ed.Connect(action.ID, ed.Trigger().ID)
	require.Error(t, err)
	assert.True(t, graph.IsRejectedEdge(err))
	assert.Equal(t, before, ed.Edges())
	for _, e := range ed.Edges() {
		assert.NotEqual(t, ed.Trigger().ID, e.Target)
	}
}

func TestTriggerStageChangePreview(t *testing.T) {
	ed := newTestEditor(t)
	trigger := ed.Trigger()

	require.NoError(t, ed.SetType(trigger.ID, catalog.TriggerDealStageChanged))
	require.NoError(t, ed.SetConfig(trigger.ID, map[string]any{"stage": "negotiation"}))

	lines := ed.Preview()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], `"negotiation"`)
}

func TestSetTypeChecksRegistryAndResetsConfig(t *testing.T) {
	ed := newTestEditor(t)
	action, _ := ed.AddActionNode()
	require.NoError(t, ed.SetConfig(action.ID, map[string]any{"title": "Call"}))

	err := ed.SetType(action.ID, catalog.TriggerDealCreated)
	require.Error(t, err)
	assert.Equal(t, catalog.ErrCodeUnknownType, ErrorCode(err))
	node, _ := ed.Node(action.ID)
	assert.Equal(t, map[string]any{"title": "Call"}, node.Config)

	require.NoError(t, ed.SetType(action.ID, catalog.ActionCreateTask))
	node, _ = ed.Node(action.ID)
	assert.Equal(t, map[string]any{}, node.Config)

	err = ed.SetType("missing", catalog.ActionCreateTask)
	assert.Equal(t, graph.ErrCodeNodeNotFound, ErrorCode(err))
}

func TestDeleteSelected(t *testing.T) {
	ed := newTestEditor(t)
	a1, _ := ed.AddActionNode()
	a2, _ := ed.AddActionNode()

	assert.False(t, ed.DeleteSelected())

	require.NoError(t, ed.Select(ed.Trigger().ID))
	assert.False(t, ed.DeleteSelected())
	assert.Len(t, ed.Nodes(), 3)

	require.NoError(t, ed.Select(a1.ID))
	assert.True(t, ed.DeleteSelected())
	_, selected := ed.Selected()
	assert.False(t, selected)
	assert.Len(t, ed.Nodes(), 2)
	assert.Empty(t, ed.Edges())

	for _, d := range ed.Diagnostics() {
		assert.NotEqual(t, validate.CodeDisconnectedAction, d.Code)
	}
	_, ok := ed.Node(a2.ID)
	assert.True(t, ok)
}

func TestDeleteTriggerIsNoop(t *testing.T) {
	ed := newTestEditor(t)
	_, _ = ed.AddActionNode()

	err := ed.DeleteNode(ed.Trigger().ID)
	require.Error(t, err)
	assert.Equal(t, graph.ErrCodeTriggerProtected, ErrorCode(err))
	assert.Len(t, ed.Nodes(), 2)
	assert.Len(t, ed.Edges(), 1)
}

func TestHandleKey(t *testing.T) {
	ed := newTestEditor(t)
	action, _ := ed.AddActionNode()
	require.NoError(t, ed.Select(action.ID))

	assert.False(t, ed.HandleKey(keymap.Event{Key: keymap.KeyBackspace, InSurface: true, InTextInput: true}))
	assert.False(t, ed.HandleKey(keymap.Event{Key: keymap.KeyDelete}))
	_, ok := ed.Node(action.ID)
	assert.True(t, ok)

	assert.True(t, ed.HandleKey(inSurface(keymap.KeyEscape)))
	_, selected := ed.Selected()
	assert.False(t, selected)
	assert.False(t, ed.HandleKey(inSurface(keymap.KeyEscape)))

	require.NoError(t, ed.Select(action.ID))
	assert.True(t, ed.HandleKey(inSurface(keymap.KeyDelete)))
	_, ok = ed.Node(action.ID)
	assert.False(t, ok)

	require.NoError(t, ed.Select(ed.Trigger().ID))
	assert.False(t, ed.HandleKey(inSurface(keymap.KeyBackspace)))
	assert.Len(t, ed.Nodes(), 1)
}

func TestApplyChecksRegistry(t *testing.T) {
	ed := newTestEditor(t)

	_, err := ed.Apply(graph.CreateNode{Kind: graph.KindAction, TypeKey: "LAUNCH_ROCKET"})
	require.Error(t, err)
	assert.Equal(t, catalog.ErrCodeUnknownType, ErrorCode(err))

	res, err := ed.Apply(graph.CreateNode{Kind: graph.KindAction, TypeKey: catalog.ActionAddTag, Position: graph.Position{Y: 50}})
	require.NoError(t, err)
	require.NotEmpty(t, res.NodeID)

	_, err = ed.Apply(graph.CreateEdge{Source: ed.Trigger().ID, Target: res.NodeID})
	require.NoError(t, err)

	_, err = ed.Apply(graph.SetType{ID: res.NodeID, TypeKey: "LAUNCH_ROCKET"})
	assert.Equal(t, catalog.ErrCodeUnknownType, ErrorCode(err))

	_, err = ed.Apply(nil)
	assert.Equal(t, graph.ErrCodeInvalidCommand, ErrorCode(err))
}

func TestConditionNodes(t *testing.T) {
	reg, err := catalog.New(catalog.BuiltinTriggers(), catalog.BuiltinActions(),
		catalog.WithConditions(catalog.TypeDescriptor{Key: "HAS_TAG", Label: "Has tag"}))
	require.NoError(t, err)
	ed, err := NewEditor(reg, WithLogger(NewFmtLogger(&bytes.Buffer{})))
	require.NoError(t, err)

	_, err = ed.AddConditionNode("UNKNOWN")
	assert.Equal(t, catalog.ErrCodeUnknownType, ErrorCode(err))

	_, _ = ed.AddActionNode()
	cond, err := ed.AddConditionNode("HAS_TAG")
	require.NoError(t, err)
	gated, err := ed.AddActionNode()
	require.NoError(t, err)

	_, err = ed.Connect(ed.Trigger().ID, cond.ID)
	require.NoError(t, err)
	_, err = ed.Connect(cond.ID, gated.ID)
	require.NoError(t, err)
	_, err = ed.Connect(cond.ID, cond.ID)
	assert.True(t, graph.IsRejectedEdge(err))

	def, err := ed.Compile()
	require.NoError(t, err)
	assert.Len(t, def.Actions, 2)
}

func TestDiagnosticsAreRecomputed(t *testing.T) {
	ed := newTestEditor(t)
	a1, _ := ed.AddActionNode()
	a2, _ := ed.AddActionNode()

	edges := ed.Edges()
	require.NoError(t, ed.Disconnect(edges[1].ID))

	diags := ed.Diagnostics()
	var disconnected []string
	for _, d := range diags {
		if d.Code == validate.CodeDisconnectedAction {
			disconnected = append(disconnected, d.NodeID)
		}
	}
	assert.Equal(t, []string{a2.ID}, disconnected)
	assert.ElementsMatch(t, []string{a1.ID, a2.ID}, ed.InvalidNodes())

	_, err := ed.Connect(a1.ID, a2.ID)
	require.NoError(t, err)
	require.NoError(t, ed.SetConfig(a1.ID, map[string]any{"title": "One"}))
	require.NoError(t, ed.SetConfig(a2.ID, map[string]any{"title": "Two"}))
	assert.Empty(t, ed.Diagnostics())
	assert.True(t, ed.DryRun().Passed())
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked without actions", func(t *testing.T) {
		ed := newTestEditor(t)
		called := false
		_, err := ed.Save(ctx, SaveFunc(func(context.Context, compiler.Definition) error {
			called = true
			return nil
		}))
		require.Error(t, err)
		assert.True(t, compiler.IsStructural(err))
		assert.False(t, called)
	})

	t.Run("field errors pass by default", func(t *testing.T) {
		ed := newTestEditor(t)
		_, _ = ed.AddActionNode()
		var saved compiler.Definition
		def, err := ed.Save(ctx, SaveFunc(func(_ context.Context, d compiler.Definition) error {
			saved = d
			return nil
		}))
		require.NoError(t, err)
		assert.Equal(t, def, saved)
	})

	t.Run("strict blocks field errors", func(t *testing.T) {
		ed := newTestEditor(t, WithStrictSave(true))
		action, _ := ed.AddActionNode()
		h := SaveFunc(func(context.Context, compiler.Definition) error { return nil })

		_, err := ed.Save(ctx, h)
		require.Error(t, err)
		assert.Equal(t, ErrCodeInvalidFields, ErrorCode(err))

		require.NoError(t, ed.SetConfig(action.ID, map[string]any{"title": "Call"}))
		_, err = ed.Save(ctx, h)
		require.NoError(t, err)
	})

	t.Run("handler gets a snapshot", func(t *testing.T) {
		ed := newTestEditor(t)
		action, _ := ed.AddActionNode()
		require.NoError(t, ed.SetConfig(action.ID, map[string]any{"title": "Before"}))

		var saved compiler.Definition
		_, err := ed.Save(ctx, SaveFunc(func(_ context.Context, d compiler.Definition) error {
			saved = d
			return nil
		}))
		require.NoError(t, err)

		require.NoError(t, ed.SetConfig(action.ID, map[string]any{"title": "After"}))
		assert.Equal(t, "Before", saved.Actions[0].Params["title"])
	})

	t.Run("handler failure", func(t *testing.T) {
		ed := newTestEditor(t)
		_, _ = ed.AddActionNode()
		_, err := ed.Save(ctx, SaveFunc(func(context.Context, compiler.Definition) error {
			return fmt.Errorf("store offline")
		}))
		require.Error(t, err)
		assert.Equal(t, ErrCodeSaveFailed, ErrorCode(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ed := newTestEditor(t)
		_, _ = ed.AddActionNode()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ed.Save(cctx, SaveFunc(func(context.Context, compiler.Definition) error { return nil }))
		assert.Equal(t, ErrCodeSaveCancelled, ErrorCode(err))
	})

	t.Run("nil handler", func(t *testing.T) {
		ed := newTestEditor(t)
		_, err := ed.Save(ctx, nil)
		assert.Equal(t, ErrCodeNilHandler, ErrorCode(err))
	})
}
