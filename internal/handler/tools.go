package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/staffmcp/staffmcp/internal/mcp"
	"github.com/staffmcp/staffmcp/internal/middleware"
	"github.com/staffmcp/staffmcp/internal/models"
	"github.com/staffmcp/staffmcp/internal/security"
	"github.com/staffmcp/staffmcp/internal/tools"
)

// ToolsHandler serves discovery and invocation for the tool registry
type ToolsHandler struct {
	registry    *tools.Registry
	dataMasker  *security.DataMasker
	auditLogger *security.AuditLogger
	enableMask  bool
}

func NewToolsHandler(
	registry *tools.Registry,
	dataMasker *security.DataMasker,
	auditLogger *security.AuditLogger,
	enableMask bool,
) *ToolsHandler {
	return &ToolsHandler{
		registry:    registry,
		dataMasker:  dataMasker,
		auditLogger: auditLogger,
		enableMask:  enableMask,
	}
}

// Discover handles GET /mcp/tools
func (h *ToolsHandler) Discover(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, h.registry.List())
}

// Invoke handles POST /tools/{name}, resolving the tool by its endpoint path
func (h *ToolsHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	tool, ok := h.registry.LookupEndpoint(r.URL.Path)
	if !ok {
		models.WriteError(w, http.StatusNotFound, "no tool is served at "+r.URL.Path)
		return
	}

	args := map[string]any{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		models.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if args == nil {
		args = map[string]any{}
	}

	requestID := middleware.GetRequestID(r.Context())
	start := time.Now()

	result, err := tool.Invoke(r.Context(), args)
	execMs := time.Since(start).Milliseconds()
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, mcp.ErrInvalidArgument):
			status = http.StatusBadRequest
		case errors.Is(err, mcp.ErrUnknownTool):
			status = http.StatusNotFound
		default:
			log.Error().Err(err).Str("tool", tool.Name).Str("request_id", requestID).Msg("tool handler failed")
		}
		h.auditLogger.LogToolCall(tool.Name, requestID, args, execMs, false, err.Error())
		models.WriteError(w, status, err.Error())
		return
	}

	if h.enableMask {
		masked, err := h.mask(result)
		if err != nil {
			h.auditLogger.LogToolCall(tool.Name, requestID, args, execMs, false, err.Error())
			models.WriteError(w, http.StatusInternalServerError, "encode result: "+err.Error())
			return
		}
		result = masked
	}

	h.auditLogger.LogToolCall(tool.Name, requestID, args, execMs, true, "")
	models.WriteJSON(w, http.StatusOK, result)
}

// mask round-trips the result through JSON so field names match the wire
func (h *ToolsHandler) mask(result any) (any, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return h.dataMasker.MaskValue(generic), nil
}
