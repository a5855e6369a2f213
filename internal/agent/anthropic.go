package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/staffmcp/staffmcp/internal/mcp"
)

const (
	defaultModel     = "claude-sonnet-4-6"
	defaultMaxTokens = 1024
)

// AnthropicReasoner is a Reasoner backed by the Anthropic Messages API or a
// compatible provider.
type AnthropicReasoner struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicReasoner creates a reasoner. baseURL may be empty; extra
// request options are appended after the key and base URL.
func NewAnthropicReasoner(apiKey, model, baseURL string, maxTokens int, opts ...option.RequestOption) *AnthropicReasoner {
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, opts...)
	return &AnthropicReasoner{
		client:    anthropic.NewClient(reqOpts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete sends the conversation and returns the model's reply. Tools are
// withheld entirely when ToolChoice is none.
func (a *AnthropicReasoner) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	system, messages := toAnthropicMessages(req.Messages)
	if len(messages) == 0 {
		return nil, mcp.InvalidArgument("", "conversation has no user message")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(a.model)),
		MaxTokens: anthropic.F(int64(a.maxTokens)),
		Messages:  anthropic.F(messages),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		})
	}
	if req.ToolChoice != ToolChoiceNone && len(req.Tools) > 0 {
		params.Tools = anthropic.F(toAnthropicTools(req.Tools))
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, reasoningError(err)
	}

	out := &Completion{StopReason: string(resp.StopReason)}
	var text strings.Builder
	for _, block := range resp.Content {
		switch b := block.AsUnion().(type) {
		case anthropic.TextBlock:
			text.WriteString(b.Text)
		case anthropic.ToolUseBlock:
			var input map[string]any
			if err := json.Unmarshal(b.Input, &input); err != nil {
				log.Warn().Err(err).Str("tool", b.Name).Msg("failed to parse tool input")
				input = map[string]any{}
			}
			out.ToolCalls = append(out.ToolCalls, ToolInvocation{ID: b.ID, Name: b.Name, Arguments: input})
		}
	}
	out.Content = text.String()

	log.Debug().
		Str("model", a.model).
		Str("stop_reason", out.StopReason).
		Int("tool_calls", len(out.ToolCalls)).
		Msg("completion received")
	return out, nil
}

// toAnthropicMessages splits out the system prompt and folds the history into
// alternating user/assistant turns. Tool results travel as user content.
func toAnthropicMessages(msgs []Message) (string, []anthropic.MessageParam) {
	var system []string
	var out []anthropic.MessageParam

	var role Role
	var blocks []anthropic.ContentBlockParamUnion
	flush := func() {
		if len(blocks) == 0 {
			return
		}
		if role == RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
		blocks = nil
	}

	for _, m := range msgs {
		var side Role
		var add []anthropic.ContentBlockParamUnion

		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
			continue
		case RoleUser:
			side = RoleUser
			add = append(add, anthropic.NewTextBlock(m.Content))
		case RoleTool:
			side = RoleUser
			add = append(add, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, m.IsError))
		case RoleAssistant:
			side = RoleAssistant
			if m.Content != "" {
				add = append(add, anthropic.NewTextBlock(m.Content))
			}
			if m.ToolCall != nil {
				add = append(add, anthropic.NewToolUseBlockParam(m.ToolCall.ID, m.ToolCall.Name, m.ToolCall.Arguments))
			}
		}
		if len(add) == 0 {
			continue
		}
		if side != role {
			flush()
			role = side
		}
		blocks = append(blocks, add...)
	}
	flush()

	return strings.Join(system, "\n\n"), out
}

func toAnthropicTools(specs []FunctionSpec) []anthropic.ToolUnionUnionParam {
	out := make([]anthropic.ToolUnionUnionParam, len(specs))
	for i, s := range specs {
		out[i] = anthropic.ToolParam{
			Name:        anthropic.String(s.Name),
			Description: anthropic.String(s.Description),
			InputSchema: anthropic.F[interface{}](s.Parameters),
		}
	}
	return out
}

func reasoningError(err error) error {
	e := &mcp.Error{
		Kind:    mcp.KindReasoningServiceUnavailable,
		Message: "LLM call failed",
		Err:     err,
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		e.Status = apiErr.StatusCode
		e.Retryable = apiErr.StatusCode >= http.StatusInternalServerError ||
			apiErr.StatusCode == http.StatusTooManyRequests
	}
	if errors.Is(err, context.DeadlineExceeded) {
		e.Retryable = true
	}
	return e
}
