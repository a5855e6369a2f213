package agent

import "context"

// ToolChoice tells the reasoning service whether it may call a tool.
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

type CompletionRequest struct {
	Messages   []Message
	Tools      []FunctionSpec
	ToolChoice ToolChoice
}

// Completion is the reasoning service's reply: text, tool calls, or both.
type Completion struct {
	Content    string
	ToolCalls  []ToolInvocation
	StopReason string
}

// Reasoner is the language-model backend the orchestrator consults.
type Reasoner interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
