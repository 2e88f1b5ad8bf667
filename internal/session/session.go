package session

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"aquaguard.ai/internal/protocol"
	"aquaguard.ai/internal/sim/river"
)

var (
	ErrStoryComplete = errors.New("story complete")
	ErrSessionLimit  = errors.New("session limit reached")
	ErrStaleDay      = errors.New("advance day out of range")
)

// StepLogEntry is the write-only telemetry record for one simulated day.
// Nothing in the session ever reads it back; the in-memory history stays
// the authoritative trend store.
type StepLogEntry struct {
	SessionID string                `json:"session_id"`
	Inputs    river.PollutionInputs `json:"inputs"`
	Policies  river.PolicyFlags     `json:"policies"`
	Weather   river.Weather         `json:"weather"`
	Health    river.Health          `json:"health"`
	EcoPoints int                   `json:"eco_points"`
	Record    river.HistoryRecord   `json:"record"`
}

// StepLogger sinks per-day entries. Implemented in internal/persistence/log.
type StepLogger interface {
	WriteStep(entry StepLogEntry) error
}

// Session owns exactly one river run: the current state plus the
// append-only history. One connection drives it at a time; the mutex
// serializes a reconnecting client against a lingering writer, it does
// not make concurrent advances meaningful.
type Session struct {
	ID          string
	Name        string
	ResumeToken string

	mgr  *Manager
	seed int64

	mu          sync.Mutex
	state       river.State
	history     []river.HistoryRecord
	lastWeather river.WeatherEvent
	src         river.WeatherSource
}

func newSession(mgr *Manager, id, name, token string, seed int64) *Session {
	s := &Session{
		ID:          id,
		Name:        name,
		ResumeToken: token,
		mgr:         mgr,
		seed:        seed,
	}
	s.resetLocked()
	return s
}

func (s *Session) resetLocked() {
	s.state = river.InitialState()
	s.history = nil
	s.lastWeather = river.Event(river.WeatherSunny)
	s.src = river.NewWeatherSource(rand.New(rand.NewSource(s.seed)))
}

// Day reports the session's current day index.
func (s *Session) Day() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Day
}

// State returns a copy of the current run state.
func (s *Session) State() river.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the append-only trend log.
func (s *Session) History() []river.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]river.HistoryRecord(nil), s.history...)
}

// Reset returns the session to day 0 and reseeds the weather source so a
// fixed-seed run replays identically.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Advance simulates the next day. Inputs are clamped to [0,10] here, at the
// boundary, so the engine stays a pure total function. day must match the
// session's current day; the story length cap is enforced here too, since
// the engine itself imposes no upper bound.
func (s *Session) Advance(day int, in river.PollutionInputs, pol river.PolicyFlags) (protocol.StateMsg, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Day >= s.mgr.cfg.StoryDays {
		return protocol.StateMsg{}, ErrStoryComplete
	}
	if day != s.state.Day {
		return protocol.StateMsg{}, ErrStaleDay
	}
	in = clampInputs(in)

	start := time.Now()
	next, out := s.mgr.engine.Step(s.state, in, pol, s.src)
	s.state = next
	s.history = append(s.history, out.Record)
	s.lastWeather = out.Weather
	s.mgr.observeStep(time.Since(start))

	if l := s.mgr.stepLogger(); l != nil {
		_ = l.WriteStep(StepLogEntry{
			SessionID: s.ID,
			Inputs:    in,
			Policies:  pol,
			Weather:   out.Weather.Kind,
			Health:    next.Health,
			EcoPoints: next.EcoPoints,
			Record:    out.Record,
		})
	}

	return s.stateMsgLocked(), nil
}

// StateMsg builds the full report for the client.
func (s *Session) StateMsg() protocol.StateMsg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateMsgLocked()
}

func (s *Session) stateMsgLocked() protocol.StateMsg {
	st := s.state

	tail := s.history
	if n := s.mgr.cfg.HistoryTail; n > 0 && len(tail) > n {
		tail = tail[len(tail)-n:]
	}
	history := make([]protocol.HistoryPoint, 0, len(tail))
	for _, r := range tail {
		history = append(history, protocol.HistoryPoint{
			Day:             r.Day,
			DissolvedOxygen: r.DissolvedOxygen,
			PH:              r.PH,
			Nitrates:        r.Nitrates,
			Toxins:          r.Toxins,
			Turbidity:       r.Turbidity,
			Score:           r.Score,
		})
	}

	return protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		SessionID:       s.ID,
		Day:             st.Day,
		Month:           st.Day/30 + 1,
		MonthDay:        st.Day % 30,
		Health:          string(st.Health),
		Score:           st.Score,
		EcoPoints:       st.EcoPoints,
		Params: protocol.ParamsMsg{
			DissolvedOxygen: st.DissolvedOxygen,
			PH:              st.PH,
			Nitrates:        st.Nitrates,
			Toxins:          st.Toxins,
			Turbidity:       st.Turbidity,
			Algae:           st.Algae,
			Plants:          st.Plants,
		},
		Weather: protocol.WeatherMsg{
			Kind:        string(s.lastWeather.Kind),
			Description: s.lastWeather.Description,
		},
		Advisory: Advisory(st),
		Badges:   Badges(st),
		History:  history,
	}
}

func clampInputs(in river.PollutionInputs) river.PollutionInputs {
	in.FactoryOutput = clamp01to10(in.FactoryOutput)
	in.FarmActivity = clamp01to10(in.FarmActivity)
	in.UrbanExpansion = clamp01to10(in.UrbanExpansion)
	return in
}

func clamp01to10(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
