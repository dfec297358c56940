package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one entry in the session's diagnostic log.
type Event struct {
	Type    string         `json:"type"`
	Ts      time.Time      `json:"timestamp"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Session describes the single active conversational session.
type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	Turns     int       `json:"turns"`
}

// Store holds the active session and a capped in-memory event log. Nothing
// here survives a restart; the log exists for live debugging only.
type Store struct {
	mu     sync.RWMutex
	sess   Session
	events []Event
}

// maxEvents caps the log so a long-lived session cannot grow without bound.
const maxEvents = 200

func New() *Store {
	return &Store{
		sess: Session{
			ID:        uuid.New().String(),
			CreatedAt: time.Now().UTC(),
		},
	}
}

func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// IncrementTurns records one completed chat turn.
func (s *Store) IncrementTurns() {
	s.mu.Lock()
	s.sess.Turns++
	s.mu.Unlock()
}

// AppendEvent records a diagnostic event, truncating the oldest entries once
// the cap is reached and leaving a warning in their place.
func (s *Store) AppendEvent(typ string, payload map[string]any) Event {
	evt := Event{Type: typ, Ts: time.Now().UTC(), Payload: payload}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	if l := len(s.events); l > maxEvents {
		keep := maxEvents - 1
		dropped := l - keep
		s.events = append([]Event(nil), s.events[l-keep:]...)
		s.events = append(s.events, Event{
			Type: "events_truncated",
			Ts:   time.Now().UTC(),
			Payload: map[string]any{
				"dropped": dropped,
				"kept":    keep,
			},
		})
	}
	return evt
}

// ListEvents returns a copy of the event log.
func (s *Store) ListEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
