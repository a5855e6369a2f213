package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/staffmcp/staffmcp/internal/mcp"
)

var (
	// ErrSessionBusy is returned when a turn is already running on the session.
	ErrSessionBusy = errors.New("session is busy with another turn")
	// ErrNothingToRetry is returned by Retry when the last turn completed.
	ErrNothingToRetry = errors.New("no interrupted turn to retry")
)

// Options bound the orchestrator's calls to its collaborators.
type Options struct {
	ReasoningTimeout time.Duration
	ToolTimeout      time.Duration
}

// TurnResult describes one completed turn.
type TurnResult struct {
	Answer     string
	Tool       *ToolInvocation
	ToolResult json.RawMessage
	ToolError  error
	Messages   int // history length after the turn
	Trace      []State
}

// Orchestrator runs conversation turns: decide, optionally execute one tool,
// then finalize an answer.
type Orchestrator struct {
	reasoner   Reasoner
	dispatcher *Dispatcher
	opts       Options
}

func NewOrchestrator(reasoner Reasoner, dispatcher *Dispatcher, opts Options) *Orchestrator {
	if opts.ReasoningTimeout <= 0 {
		opts.ReasoningTimeout = 60 * time.Second
	}
	if opts.ToolTimeout <= 0 {
		opts.ToolTimeout = 10 * time.Second
	}
	return &Orchestrator{reasoner: reasoner, dispatcher: dispatcher, opts: opts}
}

// Ask appends query to the session and runs a turn to completion. When the
// reasoning service fails the messages appended so far are kept and the turn
// can be resumed with Retry.
func (o *Orchestrator) Ask(ctx context.Context, s *Session, query string) (*TurnResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, mcp.InvalidArgument("", "query is empty")
	}
	if !s.turn.TryLock() {
		return nil, ErrSessionBusy
	}
	defer s.turn.Unlock()

	s.setState(StateAwaitingInput)
	s.memory.Append(Message{Role: RoleUser, Content: query})
	return o.run(ctx, s, StateDeciding)
}

// Retry resumes an interrupted turn from the phase implied by the end of the
// history, without appending a new user message.
func (o *Orchestrator) Retry(ctx context.Context, s *Session) (*TurnResult, error) {
	if !s.turn.TryLock() {
		return nil, ErrSessionBusy
	}
	defer s.turn.Unlock()

	last := s.memory.Last()
	var from State
	switch {
	case last.Role == RoleUser:
		from = StateDeciding
	case last.Role == RoleAssistant && last.ToolCall != nil:
		from = StateExecutingTool
	case last.Role == RoleTool:
		from = StateFinalizing
	default:
		return nil, ErrNothingToRetry
	}
	log.Info().Str("session_id", s.ID).Str("from", string(from)).Msg("retrying turn")
	return o.run(ctx, s, from)
}

func (o *Orchestrator) run(ctx context.Context, s *Session, state State) (*TurnResult, error) {
	res := &TurnResult{}
	if state != StateDeciding {
		res.Tool = pendingCall(s.memory.Messages())
	}

	var err error
	for state != StateDone {
		s.setState(state)
		res.Trace = append(res.Trace, state)

		switch state {
		case StateDeciding:
			state, err = o.decide(ctx, s, res)
		case StateExecutingTool:
			state, err = o.execute(ctx, s, res)
		case StateFinalizing:
			state, err = o.finalize(ctx, s, res)
		default:
			err = errors.Newf("unexpected state %s", state)
		}
		if err != nil {
			log.Warn().Err(err).Str("session_id", s.ID).Str("state", string(s.State())).Msg("turn aborted")
			return nil, err
		}
	}

	s.setState(StateDone)
	res.Trace = append(res.Trace, StateDone)
	res.Messages = s.memory.Len()
	return res, nil
}

func (o *Orchestrator) decide(ctx context.Context, s *Session, res *TurnResult) (State, error) {
	dctx, cancel := context.WithTimeout(ctx, o.opts.ToolTimeout)
	descriptors, err := o.dispatcher.Tools(dctx)
	cancel()
	if err != nil {
		return StateDeciding, errors.Wrap(err, "discover tools")
	}
	specs, err := ToFunctionSpecs(descriptors)
	if err != nil {
		return StateDeciding, err
	}

	comp, err := o.complete(ctx, CompletionRequest{
		Messages:   s.memory.Messages(),
		Tools:      specs,
		ToolChoice: ToolChoiceAuto,
	})
	if err != nil {
		return StateDeciding, err
	}

	if len(comp.ToolCalls) == 0 {
		s.memory.Append(Message{Role: RoleAssistant, Content: comp.Content})
		res.Answer = comp.Content
		return StateDone, nil
	}

	if len(comp.ToolCalls) > 1 {
		log.Warn().
			Str("session_id", s.ID).
			Int("tool_calls", len(comp.ToolCalls)).
			Msg("only the first tool call is executed")
	}
	call := comp.ToolCalls[0]
	if call.ID == "" {
		call.ID = "call_" + uuid.NewString()
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}
	s.memory.Append(Message{Role: RoleAssistant, Content: comp.Content, ToolCall: &call})
	res.Tool = call.clone()
	return StateExecutingTool, nil
}

func (o *Orchestrator) execute(ctx context.Context, s *Session, res *TurnResult) (State, error) {
	call := s.memory.Last().ToolCall
	if call == nil {
		return StateExecutingTool, errors.New("no pending tool call")
	}

	tctx, cancel := context.WithTimeout(ctx, o.opts.ToolTimeout)
	start := time.Now()
	raw, err := o.dispatcher.Dispatch(tctx, call.Name, call.Arguments)
	cancel()

	msg := Message{Role: RoleTool, ToolCallID: call.ID}
	if err != nil {
		// Tool failures belong to the conversation; the model explains them.
		msg.Content = toolErrorContent(call.Name, err)
		msg.IsError = true
		res.ToolError = err
		log.Warn().Err(err).Str("tool", call.Name).Msg("tool call failed")
	} else {
		msg.Content = string(raw)
		res.ToolResult = raw
		log.Info().
			Str("tool", call.Name).
			Dur("duration", time.Since(start)).
			Msg("tool call completed")
	}
	s.memory.Append(msg)
	return StateFinalizing, nil
}

func (o *Orchestrator) finalize(ctx context.Context, s *Session, res *TurnResult) (State, error) {
	comp, err := o.complete(ctx, CompletionRequest{
		Messages:   s.memory.Messages(),
		ToolChoice: ToolChoiceNone,
	})
	if err != nil {
		return StateFinalizing, err
	}
	s.memory.Append(Message{Role: RoleAssistant, Content: comp.Content})
	res.Answer = comp.Content
	return StateDone, nil
}

func (o *Orchestrator) complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	rctx, cancel := context.WithTimeout(ctx, o.opts.ReasoningTimeout)
	defer cancel()

	comp, err := o.reasoner.Complete(rctx, req)
	if err == nil && comp == nil {
		err = errors.New("empty completion")
	}
	if err != nil {
		if e, ok := mcp.AsError(err); ok && e.Kind == mcp.KindReasoningServiceUnavailable {
			return nil, err
		}
		return nil, &mcp.Error{
			Kind:      mcp.KindReasoningServiceUnavailable,
			Message:   "reasoning service call failed",
			Retryable: errors.Is(err, context.DeadlineExceeded) || errors.Is(rctx.Err(), context.DeadlineExceeded),
			Err:       err,
		}
	}
	return comp, nil
}

func toolErrorContent(tool string, err error) string {
	e, ok := mcp.AsError(err)
	if !ok {
		e = &mcp.Error{Kind: mcp.KindToolExecutionFailed, Tool: tool, Err: err}
	}
	b, mErr := json.Marshal(e)
	if mErr != nil {
		return `{"error":"tool call failed"}`
	}
	return string(b)
}

// pendingCall finds the tool call of the turn in progress at the end of msgs.
func pendingCall(msgs []Message) *ToolInvocation {
	for i := len(msgs) - 1; i >= 0; i-- {
		switch msgs[i].Role {
		case RoleUser:
			return nil
		case RoleAssistant:
			if msgs[i].ToolCall != nil {
				return msgs[i].ToolCall
			}
		}
	}
	return nil
}
