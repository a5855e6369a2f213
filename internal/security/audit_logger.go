package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs security-relevant events with hashed identifiers
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogToolCall records one tool invocation served by the tool server
func (a *AuditLogger) LogToolCall(
	tool, requestID string,
	args map[string]interface{},
	executionTimeMs int64,
	success bool,
	errMsg string,
) {
	if !a.enabled {
		return
	}
	evt := log.Info().
		Str("event", "tool_audit").
		Str("tool", tool).
		Str("request_id", requestID).
		Int("arg_count", len(args)).
		Int64("execution_time_ms", executionTimeMs).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

// LogChatTurn records one conversation turn
func (a *AuditLogger) LogChatTurn(
	sessionID, prompt, toolName string,
	success bool,
	executionTimeMs int64,
) {
	if !a.enabled {
		return
	}
	log.Info().
		Str("event", "chat_audit").
		Str("session_id", sessionID).
		Str("prompt_hash", hashStr(prompt)[:16]).
		Str("tool", toolName).
		Bool("success", success).
		Int64("execution_time_ms", executionTimeMs).
		Msg("chat audit")
}

func hashStr(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
