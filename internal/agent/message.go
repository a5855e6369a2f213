package agent

import "sync"

// Role identifies who produced a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolInvocation is a tool call chosen by the reasoning service.
type ToolInvocation struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (t *ToolInvocation) clone() *ToolInvocation {
	if t == nil {
		return nil
	}
	c := *t
	c.Arguments = make(map[string]any, len(t.Arguments))
	for k, v := range t.Arguments {
		c.Arguments[k] = v
	}
	return &c
}

// Message is one entry of a conversation. An assistant message carrying a
// ToolCall is always followed by exactly one tool message with the same
// ToolCallID.
type Message struct {
	Role       Role            `json:"role"`
	Content    string          `json:"content"`
	ToolCall   *ToolInvocation `json:"tool_call,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	IsError    bool            `json:"is_error,omitempty"`
}

// Memory is the append-only message history of one session.
type Memory struct {
	mu       sync.RWMutex
	messages []Message
}

// NewMemory starts a history holding only the system prompt.
func NewMemory(systemPrompt string) *Memory {
	return &Memory{messages: []Message{{Role: RoleSystem, Content: systemPrompt}}}
}

func (m *Memory) Append(msgs ...Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range msgs {
		msg.ToolCall = msg.ToolCall.clone()
		m.messages = append(m.messages, msg)
	}
}

// Messages returns a copy of the history in order.
func (m *Memory) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Message, len(m.messages))
	for i, msg := range m.messages {
		msg.ToolCall = msg.ToolCall.clone()
		out[i] = msg
	}
	return out
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Last returns the most recent message.
func (m *Memory) Last() Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg := m.messages[len(m.messages)-1]
	msg.ToolCall = msg.ToolCall.clone()
	return msg
}
