package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffmcp/staffmcp/internal/agent"
)

func TestMemoryIsSeededAndCopied(t *testing.T) {
	m := agent.NewMemory(systemPrompt)
	require.Equal(t, 1, m.Len())
	assert.Equal(t, agent.RoleSystem, m.Last().Role)

	call := &agent.ToolInvocation{ID: "1", Name: "get_employee_by_name", Arguments: map[string]any{"first_name": "Amit"}}
	m.Append(
		agent.Message{Role: agent.RoleUser, Content: "Who is Amit?"},
		agent.Message{Role: agent.RoleAssistant, ToolCall: call},
	)
	call.Arguments["first_name"] = "mutated"

	msgs := m.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Amit", msgs[2].ToolCall.Arguments["first_name"])

	msgs[1].Content = "changed"
	msgs[2].ToolCall.Name = "changed"
	fresh := m.Messages()
	assert.Equal(t, "Who is Amit?", fresh[1].Content)
	assert.Equal(t, "get_employee_by_name", fresh[2].ToolCall.Name)
}

func TestSessions(t *testing.T) {
	mgr := agent.NewSessions(systemPrompt)

	a := mgr.Create("")
	b := mgr.Create("You only answer in French.")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, mgr.Len())
	assert.Equal(t, agent.StateAwaitingInput, a.State())

	assert.Equal(t, systemPrompt, a.Memory().Last().Content)
	assert.Equal(t, "You only answer in French.", b.Memory().Last().Content)

	got, ok := mgr.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.True(t, mgr.End(a.ID))
	assert.False(t, mgr.End(a.ID))
	_, ok = mgr.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, mgr.Len())
}
