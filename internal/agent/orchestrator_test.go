package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffmcp/staffmcp/internal/agent"
	"github.com/staffmcp/staffmcp/internal/mcp"
	"github.com/staffmcp/staffmcp/internal/mcpclient"
	"github.com/staffmcp/staffmcp/internal/store"
	"github.com/staffmcp/staffmcp/internal/tools"
)

const systemPrompt = "You are an HR analytics assistant."

// registryClient serves discovery and invocation straight from a registry.
type registryClient struct {
	reg     *tools.Registry
	listErr error
	invokes atomic.Int32
}

func (c *registryClient) ListTools(ctx context.Context) ([]mcp.ToolDescriptor, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.reg.List(), nil
}

func (c *registryClient) Invoke(ctx context.Context, d mcp.ToolDescriptor, args map[string]any) (json.RawMessage, error) {
	c.invokes.Add(1)
	out, err := c.reg.Invoke(ctx, d.Name, args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

type step func(t *testing.T, req agent.CompletionRequest) (*agent.Completion, error)

// scriptedReasoner replays one step per Complete call.
type scriptedReasoner struct {
	t        *testing.T
	mu       sync.Mutex
	steps    []step
	requests []agent.CompletionRequest
}

func (r *scriptedReasoner) Complete(ctx context.Context, req agent.CompletionRequest) (*agent.Completion, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	if len(r.steps) == 0 {
		r.mu.Unlock()
		r.t.Fatalf("unexpected completion request #%d", len(r.requests))
		return nil, nil
	}
	next := r.steps[0]
	r.steps = r.steps[1:]
	r.mu.Unlock()
	return next(r.t, req)
}

func answer(text string) step {
	return func(*testing.T, agent.CompletionRequest) (*agent.Completion, error) {
		return &agent.Completion{Content: text, StopReason: "end_turn"}, nil
	}
}

func callTool(name string, args map[string]any) step {
	return func(*testing.T, agent.CompletionRequest) (*agent.Completion, error) {
		return &agent.Completion{
			ToolCalls:  []agent.ToolInvocation{{ID: "toolu_" + name, Name: name, Arguments: args}},
			StopReason: "tool_use",
		}, nil
	}
}

func fail(err error) step {
	return func(*testing.T, agent.CompletionRequest) (*agent.Completion, error) {
		return nil, err
	}
}

func newHarness(t *testing.T, steps ...step) (*agent.Orchestrator, *scriptedReasoner, *registryClient, *agent.Session) {
	t.Helper()
	reg, err := tools.NewEmployeeRegistry(store.NewSeededMemoryStore())
	require.NoError(t, err)
	client := &registryClient{reg: reg}
	r := &scriptedReasoner{t: t, steps: steps}
	o := agent.NewOrchestrator(r, agent.NewDispatcher(client), agent.Options{
		ReasoningTimeout: time.Second,
		ToolTimeout:      time.Second,
	})
	return o, r, client, agent.NewSession("", systemPrompt)
}

func TestAskWithoutTool(t *testing.T) {
	o, r, client, s := newHarness(t, answer("Hello! Ask me about employees."))

	res, err := o.Ask(context.Background(), s, "hi there")
	require.NoError(t, err)

	assert.Equal(t, "Hello! Ask me about employees.", res.Answer)
	assert.Nil(t, res.Tool)
	assert.Equal(t, 3, res.Messages)
	assert.Equal(t, []agent.State{agent.StateDeciding, agent.StateDone}, res.Trace)
	assert.Equal(t, agent.StateDone, s.State())
	assert.Zero(t, client.invokes.Load())

	require.Len(t, r.requests, 1)
	assert.Equal(t, agent.ToolChoiceAuto, r.requests[0].ToolChoice)
	assert.Len(t, r.requests[0].Tools, 4)
}

func TestAskEmployeesInBangalore(t *testing.T) {
	o, r, _, s := newHarness(t,
		callTool("get_employees_by_location", map[string]any{"location": "Bangalore"}),
		func(t *testing.T, req agent.CompletionRequest) (*agent.Completion, error) {
			assert.Equal(t, agent.ToolChoiceNone, req.ToolChoice)
			assert.Empty(t, req.Tools)
			last := req.Messages[len(req.Messages)-1]
			assert.Equal(t, agent.RoleTool, last.Role)
			assert.Equal(t, "toolu_get_employees_by_location", last.ToolCallID)
			assert.False(t, last.IsError)
			return &agent.Completion{Content: "Amit Sharma, Neha Verma and Rahul Mehta work in Bangalore."}, nil
		},
	)

	res, err := o.Ask(context.Background(), s, "Who works in Bangalore?")
	require.NoError(t, err)
	require.Len(t, r.requests, 2)

	assert.Contains(t, res.Answer, "Neha Verma")
	require.NotNil(t, res.Tool)
	assert.Equal(t, "get_employees_by_location", res.Tool.Name)
	assert.JSONEq(t, `[
		{"name":"Amit Sharma","job_title":"Senior Engineer"},
		{"name":"Neha Verma","job_title":"Engineering Manager"},
		{"name":"Rahul Mehta","job_title":"Backend Engineer"}
	]`, string(res.ToolResult))
	assert.Equal(t, 5, res.Messages, "system + user + tool choice + tool result + answer")
	assert.Equal(t, []agent.State{
		agent.StateDeciding, agent.StateExecutingTool, agent.StateFinalizing, agent.StateDone,
	}, res.Trace)

	roles := []agent.Role{}
	for _, m := range s.Memory().Messages() {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []agent.Role{
		agent.RoleSystem, agent.RoleUser, agent.RoleAssistant, agent.RoleTool, agent.RoleAssistant,
	}, roles)
}

func TestFollowUpResolvesEmployeeFromHistory(t *testing.T) {
	o, _, _, s := newHarness(t,
		callTool("get_employee_by_name", map[string]any{"first_name": "Neha"}),
		answer("Neha Verma is an Engineering Manager in Bangalore."),
		func(t *testing.T, req agent.CompletionRequest) (*agent.Completion, error) {
			require.Len(t, req.Messages, 6, "earlier turn is part of the context")
			// resolve "her" from the previous tool result
			var detail struct {
				EmployeeID string `json:"employee_id"`
			}
			require.NoError(t, json.Unmarshal([]byte(req.Messages[3].Content), &detail))
			assert.Equal(t, "EMP-1002", detail.EmployeeID)
			return &agent.Completion{ToolCalls: []agent.ToolInvocation{{
				Name:      "get_direct_reports",
				Arguments: map[string]any{"manager_employee_id": detail.EmployeeID},
			}}}, nil
		},
		answer("Rahul Mehta and Daniel Miller report to her."),
	)
	ctx := context.Background()

	_, err := o.Ask(ctx, s, "Tell me about Neha")
	require.NoError(t, err)

	res, err := o.Ask(ctx, s, "Who reports to her?")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name":"Rahul Mehta","job_title":"Backend Engineer"},
		{"name":"Daniel Miller","job_title":"Site Reliability Engineer"}
	]`, string(res.ToolResult))
	assert.True(t, strings.HasPrefix(res.Tool.ID, "call_"), "missing call IDs are generated")
	assert.Equal(t, 9, res.Messages)
}

func TestEmployeeNotFoundIsNormalResult(t *testing.T) {
	o, _, _, s := newHarness(t,
		callTool("get_employee_by_name", map[string]any{"first_name": "Zara"}),
		answer("There is no employee named Zara."),
	)

	res, err := o.Ask(context.Background(), s, "Who is Zara?")
	require.NoError(t, err)
	assert.NoError(t, res.ToolError)
	assert.JSONEq(t, `{"found":false,"message":"employee not found","query":{"first_name":"Zara"}}`, string(res.ToolResult))
	assert.False(t, s.Memory().Messages()[3].IsError)
}

func TestToolFailuresFoldIntoHistory(t *testing.T) {
	tests := []struct {
		name string
		call step
		kind mcp.ErrorKind
		is   error
	}{
		{"unknown tool", callTool("get_salary", map[string]any{"first_name": "Amit"}), mcp.KindUnknownTool, mcp.ErrUnknownTool},
		{"missing argument", callTool("get_employees_by_location", map[string]any{}), mcp.KindInvalidArgument, mcp.ErrInvalidArgument},
		{"extra argument", callTool("get_direct_reports", map[string]any{"manager_employee_id": "EMP-1002", "depth": "2"}), mcp.KindInvalidArgument, mcp.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _, client, s := newHarness(t, tt.call, answer("Sorry, I could not look that up."))

			res, err := o.Ask(context.Background(), s, "question")
			require.NoError(t, err, "tool failures do not abort the turn")
			assert.True(t, errors.Is(res.ToolError, tt.is))
			assert.Zero(t, client.invokes.Load(), "nothing reaches the tool server")
			assert.Equal(t, "Sorry, I could not look that up.", res.Answer)

			toolMsg := s.Memory().Messages()[3]
			assert.Equal(t, agent.RoleTool, toolMsg.Role)
			assert.True(t, toolMsg.IsError)
			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &payload))
			assert.Equal(t, string(tt.kind), payload["kind"])
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func TestOnlyFirstToolCallIsExecuted(t *testing.T) {
	o, _, client, s := newHarness(t,
		func(*testing.T, agent.CompletionRequest) (*agent.Completion, error) {
			return &agent.Completion{ToolCalls: []agent.ToolInvocation{
				{ID: "a", Name: "get_employees_by_location", Arguments: map[string]any{"location": "London"}},
				{ID: "b", Name: "get_employees_by_location", Arguments: map[string]any{"location": "Bangalore"}},
			}}, nil
		},
		answer("London has James and Emily."),
	)

	res, err := o.Ask(context.Background(), s, "Who works in London and Bangalore?")
	require.NoError(t, err)
	assert.Equal(t, int32(1), client.invokes.Load())
	assert.Equal(t, "a", res.Tool.ID)
	assert.Equal(t, 5, res.Messages)
}

func TestReasoningFailureKeepsMemoryAndRetryResumes(t *testing.T) {
	unavailable := errors.New("503 overloaded")
	o, r, client, s := newHarness(t,
		callTool("get_employees_by_location", map[string]any{"location": "Bangalore"}),
		fail(unavailable),
		answer("Three people work in Bangalore."),
	)
	ctx := context.Background()

	_, err := o.Ask(ctx, s, "Who works in Bangalore?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcp.ErrReasoningServiceUnavailable))
	assert.True(t, errors.Is(err, unavailable))
	assert.Equal(t, 4, s.Memory().Len(), "user, tool choice and tool result are kept")
	assert.Equal(t, agent.StateFinalizing, s.State())

	res, err := o.Retry(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Three people work in Bangalore.", res.Answer)
	assert.Equal(t, []agent.State{agent.StateFinalizing, agent.StateDone}, res.Trace)
	require.NotNil(t, res.Tool)
	assert.Equal(t, "get_employees_by_location", res.Tool.Name)
	assert.Equal(t, 5, res.Messages)
	assert.Equal(t, int32(1), client.invokes.Load(), "the tool is not called again")
	assert.Len(t, r.requests, 3)

	_, err = o.Retry(ctx, s)
	assert.ErrorIs(t, err, agent.ErrNothingToRetry)
}

func TestRetryAfterDecidingFailure(t *testing.T) {
	o, _, _, s := newHarness(t,
		fail(errors.New("connection refused")),
		answer("Hi!"),
	)
	ctx := context.Background()

	_, err := o.Ask(ctx, s, "hello")
	require.Error(t, err)
	assert.Equal(t, 2, s.Memory().Len())

	res, err := o.Retry(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Hi!", res.Answer)
	assert.Equal(t, 3, res.Messages, "no second user message")
}

func TestReasoningTimeoutIsRetryable(t *testing.T) {
	reg, err := tools.NewEmployeeRegistry(store.NewSeededMemoryStore())
	require.NoError(t, err)
	r := &scriptedReasoner{t: t, steps: []step{
		func(*testing.T, agent.CompletionRequest) (*agent.Completion, error) {
			time.Sleep(100 * time.Millisecond)
			return nil, context.DeadlineExceeded
		},
	}}
	o := agent.NewOrchestrator(r, agent.NewDispatcher(&registryClient{reg: reg}), agent.Options{
		ReasoningTimeout: 20 * time.Millisecond,
		ToolTimeout:      time.Second,
	})

	_, err = o.Ask(context.Background(), agent.NewSession("", systemPrompt), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcp.ErrReasoningServiceUnavailable))
	assert.True(t, mcp.IsRetryable(err))
}

func TestDiscoveryFailureAbortsTurn(t *testing.T) {
	o, r, client, s := newHarness(t)
	client.listErr = &mcp.Error{Kind: mcp.KindToolExecutionFailed, Message: "discovery failed", Retryable: true}

	_, err := o.Ask(context.Background(), s, "Who works in London?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcp.ErrToolExecutionFailed))
	assert.Empty(t, r.requests)
	assert.Equal(t, 2, s.Memory().Len())
}

func TestMalformedDescriptorFailsDeciding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"get_salary","description":"Employees earning above min","endpoint":"/tools/get_salary","input_schema":{"min":"float"}}]`))
	}))
	defer srv.Close()

	r := &scriptedReasoner{t: t}
	o := agent.NewOrchestrator(r, agent.NewDispatcher(mcpclient.New(srv.URL, time.Second)), agent.Options{
		ReasoningTimeout: time.Second,
		ToolTimeout:      time.Second,
	})
	s := agent.NewSession("", systemPrompt)

	_, err := o.Ask(context.Background(), s, "Who earns more than 2 million?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcp.ErrToolExecutionFailed), "got %v", err)
	assert.Contains(t, err.Error(), "get_salary")
	assert.Contains(t, err.Error(), "malformed tool descriptor")
	assert.Empty(t, r.requests, "no completion without a valid tool list")
	assert.Equal(t, agent.StateDeciding, s.State())
	assert.Equal(t, 2, s.Memory().Len())
}

func TestMemoryGrowsTwoPerPlainTurn(t *testing.T) {
	tests := []struct {
		name  string
		turns int
	}{
		{"one turn", 1},
		{"two turns", 2},
		{"three turns", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := make([]step, tt.turns)
			for i := range steps {
				steps[i] = answer("Nothing to look up.")
			}
			o, _, client, s := newHarness(t, steps...)

			for i := 1; i <= tt.turns; i++ {
				res, err := o.Ask(context.Background(), s, "hello again")
				require.NoError(t, err)
				assert.Equal(t, 1+2*i, res.Messages)
			}
			assert.Equal(t, 1+2*tt.turns, s.Memory().Len())
			assert.Zero(t, client.invokes.Load())
		})
	}
}

func TestEmptyQueryIsRejected(t *testing.T) {
	o, _, _, s := newHarness(t)
	_, err := o.Ask(context.Background(), s, "   ")
	assert.True(t, errors.Is(err, mcp.ErrInvalidArgument))
	assert.Equal(t, 1, s.Memory().Len())
}

func TestSessionBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	o, _, _, s := newHarness(t,
		func(*testing.T, agent.CompletionRequest) (*agent.Completion, error) {
			close(entered)
			<-release
			return &agent.Completion{Content: "done"}, nil
		},
	)

	done := make(chan error, 1)
	go func() {
		_, err := o.Ask(context.Background(), s, "first")
		done <- err
	}()

	<-entered
	_, err := o.Ask(context.Background(), s, "second")
	assert.ErrorIs(t, err, agent.ErrSessionBusy)
	_, err = o.Retry(context.Background(), s)
	assert.ErrorIs(t, err, agent.ErrSessionBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 3, s.Memory().Len(), "the rejected query was never recorded")
}
