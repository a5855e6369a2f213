package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/staffmcp/staffmcp/internal/agent"
	"github.com/staffmcp/staffmcp/internal/mcp"
	"github.com/staffmcp/staffmcp/internal/models"
	"github.com/staffmcp/staffmcp/internal/security"
)

// ChatHandler serves conversation sessions backed by the orchestrator
type ChatHandler struct {
	orchestrator *agent.Orchestrator
	sessions     *agent.Sessions
	promptVal    *security.PromptValidator
	piiDetector  *security.PIIDetector
	auditLogger  *security.AuditLogger
	enablePII    bool
}

func NewChatHandler(
	orchestrator *agent.Orchestrator,
	sessions *agent.Sessions,
	promptVal *security.PromptValidator,
	piiDetector *security.PIIDetector,
	auditLogger *security.AuditLogger,
	enablePII bool,
) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		sessions:     sessions,
		promptVal:    promptVal,
		piiDetector:  piiDetector,
		auditLogger:  auditLogger,
		enablePII:    enablePII,
	}
}

// HistoryResponse is returned by GET /sessions/{session_id}/messages
type HistoryResponse struct {
	SessionID string          `json:"session_id"`
	State     agent.State     `json:"state"`
	Messages  []agent.Message `json:"messages"`
}

// CreateSession handles POST /sessions
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	prompt := ""
	if req.SystemPrompt != nil {
		prompt = *req.SystemPrompt
	}
	s := h.sessions.Create(prompt)
	log.Info().Str("session_id", s.ID).Msg("session created")

	models.WriteJSON(w, http.StatusCreated, models.SessionResponse{
		Status:    "success",
		SessionID: s.ID,
		CreatedAt: s.CreatedAt,
	})
}

// EndSession handles DELETE /sessions/{session_id}
func (h *ChatHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	if !h.sessions.End(id) {
		models.WriteError(w, http.StatusNotFound, "session not found")
		return
	}
	log.Info().Str("session_id", id).Msg("session ended")
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /sessions/{session_id}/messages
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	models.WriteJSON(w, http.StatusOK, HistoryResponse{
		SessionID: s.ID,
		State:     s.State(),
		Messages:  s.Memory().Messages(),
	})
}

// SendMessage handles POST /sessions/{session_id}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.SetDefaults()

	if v := h.promptVal.Validate(req.Prompt); !v.Valid {
		models.WriteError(w, http.StatusBadRequest, "prompt validation failed: "+v.Message)
		return
	}
	if h.enablePII {
		if found, kw := h.piiDetector.Detect(req.Prompt); found {
			log.Warn().Str("session_id", s.ID).Str("keyword", kw).Msg("PII keyword in prompt")
			models.WriteError(w, http.StatusBadRequest, "prompt requests sensitive data: "+kw)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(req.Timeout)*time.Second)
	defer cancel()

	start := time.Now()
	res, err := h.orchestrator.Ask(ctx, s, req.Prompt)
	h.respond(w, s, req.Prompt, start, res, err)
}

// Retry handles POST /sessions/{session_id}/retry
func (h *ChatHandler) Retry(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	start := time.Now()
	res, err := h.orchestrator.Retry(r.Context(), s)
	h.respond(w, s, "", start, res, err)
}

func (h *ChatHandler) session(w http.ResponseWriter, r *http.Request) (*agent.Session, bool) {
	s, ok := h.sessions.Get(chi.URLParam(r, "session_id"))
	if !ok {
		models.WriteError(w, http.StatusNotFound, "session not found")
	}
	return s, ok
}

func (h *ChatHandler) respond(w http.ResponseWriter, s *agent.Session, prompt string, start time.Time, res *agent.TurnResult, err error) {
	execMs := time.Since(start).Milliseconds()
	if err != nil {
		h.auditLogger.LogChatTurn(s.ID, prompt, "", false, execMs)
		models.WriteError(w, turnErrorStatus(err), err.Error())
		return
	}

	resp := models.ChatResponse{
		Status:    "success",
		SessionID: s.ID,
		Answer:    res.Answer,
		Messages:  res.Messages,
		Metadata: map[string]any{
			"trace":             res.Trace,
			"execution_time_ms": execMs,
		},
	}
	toolName := ""
	if res.Tool != nil {
		toolName = res.Tool.Name
		resp.Tool = &models.ToolUsage{Name: res.Tool.Name, Arguments: res.Tool.Arguments}
		if res.ToolError != nil {
			resp.Tool.Error = res.ToolError.Error()
		}
	}

	h.auditLogger.LogChatTurn(s.ID, prompt, toolName, true, execMs)
	models.WriteJSON(w, http.StatusOK, resp)
}

func turnErrorStatus(err error) int {
	switch {
	case errors.Is(err, agent.ErrSessionBusy), errors.Is(err, agent.ErrNothingToRetry):
		return http.StatusConflict
	case errors.Is(err, mcp.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, mcp.ErrReasoningServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, mcp.ErrToolExecutionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
