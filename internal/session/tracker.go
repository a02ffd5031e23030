package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartderm/internal/derm"
)

const defaultTTL = 60 * time.Minute

type slot struct {
	state  ScreenState
	cancel context.CancelFunc
}

type session struct {
	id       string
	screens  map[Screen]*slot
	disease  string
	location *derm.Location
	lastSeen time.Time
}

// Tracker owns every live session. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	sessions  map[string]*session
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// Option customises a Tracker.
type Option func(*Tracker)

// WithTTL sets how long an idle session is kept.
func WithTTL(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.ttl = d
		}
	}
}

// WithClock replaces time.Now; tests use it to expire sessions.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker returns an empty Tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{sessions: make(map[string]*session), ttl: defaultTTL, now: time.Now}
	for _, o := range opts {
		o(t)
	}
	t.lastSweep = t.now()
	return t
}

// NewID returns a fresh session id.
func NewID() string { return uuid.NewString() }

// ValidID reports whether id looks like an id issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Begin moves screen to loading, cancels the request already in flight for
// it and returns a context for the new one. The caller must finish the
// ticket with Succeed or Fail.
func (t *Tracker) Begin(parent context.Context, id string, screen Screen) (context.Context, Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.touchLocked(id)
	sl := s.slot(screen)
	if sl.cancel != nil {
		sl.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	sl.cancel = cancel
	sl.state = ScreenState{Phase: PhaseLoading, Generation: sl.state.Generation + 1, UpdatedAt: t.now()}
	return ctx, Ticket{Session: id, Screen: screen, Generation: sl.state.Generation}
}

// Succeed records data for tk. It returns false when tk was superseded.
func (t *Tracker) Succeed(tk Ticket, data any) bool {
	return t.finish(tk, PhaseSuccess, data, "")
}

// SucceedAnalysis records a successful analysis, remembers its disease name
// for follow-ups and resets the follow-up screens.
func (t *Tracker) SucceedAnalysis(tk Ticket, data any, disease string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.finishLocked(tk, PhaseSuccess, data, "") {
		return false
	}
	s := t.sessions[tk.Session]
	s.disease = disease
	for _, sc := range followUps {
		sl := s.slot(sc)
		if sl.cancel != nil {
			sl.cancel()
			sl.cancel = nil
		}
		sl.state = ScreenState{Phase: PhaseIdle, Generation: sl.state.Generation + 1, UpdatedAt: t.now()}
	}
	return true
}

// Fail records msg for tk. It returns false when tk was superseded.
func (t *Tracker) Fail(tk Ticket, msg string) bool {
	return t.finish(tk, PhaseFailure, nil, msg)
}

// Current reports whether tk is still the latest request of its screen.
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[tk.Session]
	if !ok {
		return false
	}
	sl := s.screens[tk.Screen]
	return sl != nil && sl.state.Generation == tk.Generation && sl.state.Phase == PhaseLoading
}

func (t *Tracker) finish(tk Ticket, phase Phase, data any, msg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finishLocked(tk, phase, data, msg)
}

func (t *Tracker) finishLocked(tk Ticket, phase Phase, data any, msg string) bool {
	s, ok := t.sessions[tk.Session]
	if !ok {
		return false
	}
	sl := s.screens[tk.Screen]
	if sl == nil || sl.state.Generation != tk.Generation || sl.state.Phase != PhaseLoading {
		return false
	}
	if sl.cancel != nil {
		sl.cancel()
		sl.cancel = nil
	}
	sl.state = ScreenState{Phase: phase, Data: data, Message: msg, Generation: tk.Generation, UpdatedAt: t.now()}
	s.lastSeen = t.now()
	return true
}

// DiseaseName returns the disease of the session's last successful analysis.
func (t *Tracker) DiseaseName(id string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.sessions[id]; ok {
		return s.disease
	}
	return ""
}

// CaptureLocation stores loc once. Later calls keep the first location and
// report false.
func (t *Tracker) CaptureLocation(id string, loc derm.Location) (derm.Location, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.touchLocked(id)
	if s.location != nil {
		return *s.location, false
	}
	l := loc
	s.location = &l
	return l, true
}

// Snapshot returns a copy of session id.
func (t *Tracker) Snapshot(id string) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweepLocked()
	s, ok := t.sessions[id]
	if !ok {
		return Snapshot{}, false
	}
	out := Snapshot{ID: s.id, Screens: make(map[Screen]ScreenState, len(Screens)), DiseaseName: s.disease, LastSeen: s.lastSeen}
	for _, sc := range Screens {
		if sl, ok := s.screens[sc]; ok {
			out.Screens[sc] = sl.state
		} else {
			out.Screens[sc] = ScreenState{Phase: PhaseIdle}
		}
	}
	if s.location != nil {
		l := *s.location
		out.Location = &l
	}
	return out, true
}

// Len returns the number of live sessions.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweepLocked()
	return len(t.sessions)
}

func (t *Tracker) touchLocked(id string) *session {
	t.sweepLocked()
	s, ok := t.sessions[id]
	if !ok {
		s = &session{id: id, screens: make(map[Screen]*slot)}
		t.sessions[id] = s
	}
	s.lastSeen = t.now()
	return s
}

// sweepLocked drops expired sessions at most once per TTL/4.
func (t *Tracker) sweepLocked() {
	now := t.now()
	if now.Sub(t.lastSweep) < t.ttl/4 {
		return
	}
	t.lastSweep = now
	for id, s := range t.sessions {
		if now.Sub(s.lastSeen) <= t.ttl {
			continue
		}
		for _, sl := range s.screens {
			if sl.cancel != nil {
				sl.cancel()
			}
		}
		delete(t.sessions, id)
	}
}

func (s *session) slot(sc Screen) *slot {
	sl, ok := s.screens[sc]
	if !ok {
		sl = &slot{state: ScreenState{Phase: PhaseIdle}}
		s.screens[sc] = sl
	}
	return sl
}
