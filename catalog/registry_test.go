package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-automation/graph"
)

func TestDefaultRegistryOrder(t *testing.T) {
	reg := Default()

	assert.Equal(t, TriggerDealStageChanged, reg.DefaultTrigger().Key)
	assert.Equal(t, ActionCreateTask, reg.DefaultAction().Key)
	assert.Len(t, reg.Triggers(), 5)
	assert.Len(t, reg.Actions(), 6)
	assert.Empty(t, reg.Conditions())
}

func TestNewRejectsEmptyRegistry(t *testing.T) {
	_, err := New(nil, BuiltinActions())
	require.Error(t, err)
	assert.Equal(t, ErrCodeEmptyRegistry, ErrorCode(err))

	_, err = New(BuiltinTriggers(), nil)
	require.Error(t, err)
	assert.Equal(t, ErrCodeEmptyRegistry, ErrorCode(err))
}

func TestNewRejectsInvalidDescriptor(t *testing.T) {
	_, err := New(
		[]TypeDescriptor{{Key: " ", Label: "blank"}},
		BuiltinActions(),
	)
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidDescriptor, ErrorCode(err))

	_, err = New(
		BuiltinTriggers(),
		[]TypeDescriptor{{Key: "X", ConfigSchema: []FieldSpec{{Field: "a"}, {Field: "a"}}}},
	)
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidDescriptor, ErrorCode(err))
}

func TestBuiltinKeysKeepTypedBehavior(t *testing.T) {
	reg, err := New(
		[]TypeDescriptor{{Key: TriggerDealStageChanged, Label: "Stage moved"}},
		[]TypeDescriptor{{Key: ActionCreateTask, Label: "New task"}},
	)
	require.NoError(t, err)

	cfg, err := reg.Parse(graph.KindAction, ActionCreateTask, map[string]any{"title": "Call client"})
	require.NoError(t, err)
	assert.IsType(t, CreateTaskConfig{}, cfg)
	assert.Equal(t, `Create task "Call client"`, cfg.Describe())
	assert.Equal(t, "New task", reg.Label(graph.KindAction, ActionCreateTask))
}

func TestSchemaEntryChecksRequiredFields(t *testing.T) {
	reg, err := New(
		[]TypeDescriptor{{Key: "INVOICE_PAID", Label: "Invoice paid"}},
		[]TypeDescriptor{{Key: "CREATE_NOTE", Label: "Create note", ConfigSchema: []FieldSpec{
			{Field: "body", Required: true},
			{Field: "priority", ValueKind: ValueNumber},
		}}},
	)
	require.NoError(t, err)

	cfg, err := reg.Parse(graph.KindAction, "CREATE_NOTE", map[string]any{"body": "  ", "priority": "high"})
	require.NoError(t, err)
	issues := cfg.Validate()
	require.Len(t, issues, 2)
	assert.Equal(t, "body", issues[0].Field)
	assert.True(t, issues[0].Missing)
	assert.Equal(t, "priority", issues[1].Field)
	assert.False(t, issues[1].Missing)
	assert.Empty(t, cfg.Describe())

	cfg, err = reg.Parse(graph.KindAction, "CREATE_NOTE", map[string]any{"body": "hello", "priority": 2})
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())
}

func TestParseUnknownType(t *testing.T) {
	_, err := Default().Parse(graph.KindAction, "LAUNCH_ROCKET", nil)
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnknownType, ErrorCode(err))
}

func TestWithEntriesReplacesType(t *testing.T) {
	custom := Typed[AddTagConfig](TypeDescriptor{Kind: graph.KindAction, Key: ActionCreateTask, Label: "Tag instead"})
	reg, err := New(BuiltinTriggers(), BuiltinActions(), WithEntries(custom))
	require.NoError(t, err)

	assert.Equal(t, ActionCreateTask, reg.DefaultAction().Key)
	assert.Equal(t, "Tag instead", reg.DefaultAction().Label)
	assert.Len(t, reg.Actions(), 6)
}

func TestWithConditions(t *testing.T) {
	reg, err := New(BuiltinTriggers(), BuiltinActions(), WithConditions(TypeDescriptor{
		Key:   "DEAL_VALUE_ABOVE",
		Label: "Deal value above",
		ConfigSchema: []FieldSpec{
			{Field: "amount", Required: true, ValueKind: ValueNumber},
		},
	}))
	require.NoError(t, err)

	entry, ok := reg.Condition("DEAL_VALUE_ABOVE")
	require.True(t, ok)
	assert.Equal(t, graph.KindCondition, entry.Descriptor().Kind)
}

func TestDescriptorsAreCopies(t *testing.T) {
	reg := Default()
	actions := reg.Actions()
	actions[0].ConfigSchema[0].Field = "mutated"

	assert.Equal(t, "title", reg.Actions()[0].ConfigSchema[0].Field)
}
