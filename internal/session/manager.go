package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"aquaguard.ai/internal/sim/river"
)

type Config struct {
	StoryDays   int
	MaxSessions int
	HistoryTail int

	// Seed anchors every session's weather source. Zero picks a time-based
	// seed; a fixed value makes whole runs reproducible.
	Seed int64
}

// Manager scopes one state per session and hands sessions back out on
// resume. No state is ever shared between sessions.
type Manager struct {
	cfg    Config
	engine *river.Engine

	mu       sync.Mutex
	logger   StepLogger
	sessions map[string]*Session
	byToken  map[string]*Session

	nextNum   atomic.Uint64
	daysTotal atomic.Uint64
	stepNanos atomic.Int64
}

type Metrics struct {
	Sessions  int     `json:"sessions"`
	DaysTotal uint64  `json:"days_total"`
	StepMS    float64 `json:"step_ms"`
}

func NewManager(cfg Config, engine *river.Engine) *Manager {
	if cfg.StoryDays <= 0 {
		cfg.StoryDays = 365
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 256
	}
	if cfg.HistoryTail < 0 {
		cfg.HistoryTail = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Manager{
		cfg:      cfg,
		engine:   engine,
		sessions: map[string]*Session{},
		byToken:  map[string]*Session{},
	}
}

func (m *Manager) SetStepLogger(l StepLogger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = l
}

func (m *Manager) stepLogger() StepLogger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logger
}

// Create starts a fresh day-0 session.
func (m *Manager) Create(name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.cfg.MaxSessions {
		return nil, ErrSessionLimit
	}

	num := m.nextNum.Add(1)
	id := fmt.Sprintf("S%d", num)
	// Distinct per session, reproducible for a fixed config seed.
	seed := m.cfg.Seed + int64(num)
	token := fmt.Sprintf("resume_%s_%d", id, num)

	s := newSession(m, id, name, token, seed)
	m.sessions[id] = s
	m.byToken[token] = s
	return s, nil
}

// Resume reattaches a disconnected client to its session.
func (m *Manager) Resume(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byToken[token]
	return s, ok
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session entirely. Disconnects do not call this; they
// leave the session resumable.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		delete(m.byToken, s.ResumeToken)
		delete(m.sessions, id)
	}
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) Seed() int64 { return m.cfg.Seed }

func (m *Manager) StoryDays() int { return m.cfg.StoryDays }

func (m *Manager) observeStep(d time.Duration) {
	m.daysTotal.Add(1)
	m.stepNanos.Store(int64(d))
}

func (m *Manager) Metrics() Metrics {
	return Metrics{
		Sessions:  m.Count(),
		DaysTotal: m.daysTotal.Load(),
		StepMS:    float64(m.stepNanos.Load()) / 1e6,
	}
}
