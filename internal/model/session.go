package model

import (
	"sync"
	"time"
)

// Session 一局游戏的内存状态，History 只追加
type Session struct {
	ID        string    `json:"session_id"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`

	// turn 串行化同一会话的出题，读历史到追加之间不会被插队
	turn sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
	history  []string
}

func NewSession(id, context string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Context:   context,
		CreatedAt: now,
		lastSeen:  now,
	}
}

// BeginTurn 占用本会话直到返回的函数被调用
func (s *Session) BeginTurn() (release func()) {
	s.turn.Lock()
	return s.turn.Unlock
}

func (s *Session) Append(question string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, question)
	s.lastSeen = now
}

// History 返回历史快照
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
