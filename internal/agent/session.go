package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the orchestrator phase a session is in.
type State string

const (
	StateAwaitingInput State = "AWAITING_INPUT"
	StateDeciding      State = "DECIDING"
	StateExecutingTool State = "EXECUTING_TOOL"
	StateFinalizing    State = "FINALIZING"
	StateDone          State = "DONE"
)

// Session is one conversation. Only one turn runs on it at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	memory *Memory
	turn   sync.Mutex

	mu    sync.Mutex
	state State
}

// NewSession creates a session whose memory is seeded with systemPrompt.
func NewSession(id, systemPrompt string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		memory:    NewMemory(systemPrompt),
		state:     StateAwaitingInput,
	}
}

func (s *Session) Memory() *Memory { return s.memory }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Sessions tracks live sessions by ID.
type Sessions struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	systemPrompt string
}

func NewSessions(systemPrompt string) *Sessions {
	return &Sessions{
		sessions:     make(map[string]*Session),
		systemPrompt: systemPrompt,
	}
}

// Create starts a session. An empty systemPrompt uses the default one.
func (m *Sessions) Create(systemPrompt string) *Session {
	if systemPrompt == "" {
		systemPrompt = m.systemPrompt
	}
	s := NewSession(uuid.NewString(), systemPrompt)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Sessions) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// End discards a session and reports whether it existed.
func (m *Sessions) End(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

func (m *Sessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
