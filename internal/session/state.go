// Package session keeps per-client screen state. Each screen moves
// idle -> loading -> success | failure and re-enters loading on every
// trigger. The latest trigger wins: starting a request cancels the one
// already in flight for the same screen and late completions are dropped.
package session

import (
	"time"

	"smartderm/internal/derm"
)

// Screen names a requester with its own state.
type Screen string

const (
	ScreenAnalysis  Screen = "analysis"
	ScreenFoods     Screen = "foods"
	ScreenQuestions Screen = "questions"
	ScreenCauses    Screen = "causes"
)

// Screens lists every screen in display order.
var Screens = []Screen{ScreenAnalysis, ScreenFoods, ScreenQuestions, ScreenCauses}

// followUps are reset when a new analysis succeeds.
var followUps = []Screen{ScreenFoods, ScreenQuestions, ScreenCauses}

// Phase is a screen's position in its state machine.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailure Phase = "failure"
)

// ScreenState is a copy of one screen's state.
type ScreenState struct {
	Phase      Phase     `json:"phase"`
	Data       any       `json:"data,omitempty"`
	Message    string    `json:"message,omitempty"`
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Snapshot is a copy of a whole session.
type Snapshot struct {
	ID          string                 `json:"id"`
	Screens     map[Screen]ScreenState `json:"screens"`
	DiseaseName string                 `json:"disease_name,omitempty"`
	Location    *derm.Location         `json:"location,omitempty"`
	LastSeen    time.Time              `json:"last_seen"`
}

// Ticket identifies one triggered request.
type Ticket struct {
	Session    string
	Screen     Screen
	Generation uint64
}
