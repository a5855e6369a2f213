package models

import "time"

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// SessionResponse is returned when a chat session is created
type SessionResponse struct {
	Status    string    `json:"status"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResponse is returned by POST /api/v1/sessions/{session_id}/messages
type ChatResponse struct {
	Status    string         `json:"status"`
	SessionID string         `json:"session_id"`
	Answer    string         `json:"answer"`
	Tool      *ToolUsage     `json:"tool,omitempty"`
	Messages  int            `json:"messages"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ToolUsage describes the tool invoked during a turn, if any
type ToolUsage struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Error     string         `json:"error,omitempty"`
}
