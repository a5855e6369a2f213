package models

// Bounds of ChatRequest.Timeout, in seconds.
const (
	DefaultChatTimeout = 120
	MinChatTimeout     = 10
	MaxChatTimeout     = 600
)

// ChatRequest for POST /api/v1/sessions/{session_id}/messages
type ChatRequest struct {
	Prompt  string `json:"prompt"`
	Timeout int    `json:"timeout"` // seconds for the whole turn
}

func (r *ChatRequest) SetDefaults() {
	if r.Timeout == 0 {
		r.Timeout = DefaultChatTimeout
	}
	if r.Timeout < MinChatTimeout {
		r.Timeout = MinChatTimeout
	}
	if r.Timeout > MaxChatTimeout {
		r.Timeout = MaxChatTimeout
	}
}

// SessionRequest for POST /api/v1/sessions
type SessionRequest struct {
	SystemPrompt *string `json:"system_prompt,omitempty"`
}
