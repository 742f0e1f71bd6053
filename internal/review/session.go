// Package review holds the pure state for a side-by-side review
// session: two synced players, time-anchored feedback composition, and
// pointer-drawn annotations. Nothing here does IO; handlers and the
// frontend drive it with events and read the resulting state.
package review

import (
	"sort"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
)

// Secondary-player positions further than this many seconds from the
// primary clock get snapped back.
const DefaultDriftThreshold = 0.5

// Seconds moved per arrow-key step.
const keyStepSeconds = 5

// Player sides of the comparison view.
const (
	SideA = "A"
	SideB = "B"
)

// Session is the dual-player review state. Side A is the primary
// clock; side B mirrors it while linked.
type Session struct {
	durationA float64
	durationB float64

	position float64
	playing  bool
	linked   bool

	driftThreshold float64
}

// NewSession builds a session for two media durations (seconds). A
// zero durationB means single-player review; linking starts enabled.
func NewSession(durationA, durationB float64) *Session {
	return &Session{
		durationA:      durationA,
		durationB:      durationB,
		linked:         durationB > 0,
		driftThreshold: DefaultDriftThreshold,
	}
}

// Playing reports whether playback is running.
func (s *Session) Playing() bool { return s.playing }

// Linked reports whether side B mirrors side A.
func (s *Session) Linked() bool { return s.linked }

// Position returns the primary clock in seconds.
func (s *Session) Position() float64 { return s.position }

// Play starts both players.
func (s *Session) Play() { s.playing = true }

// Pause stops both players.
func (s *Session) Pause() { s.playing = false }

// TogglePlay flips play state and returns the new value.
func (s *Session) TogglePlay() bool {
	s.playing = !s.playing
	return s.playing
}

// ToggleLink flips B-mirroring and returns the new value. Relinking
// snaps B back to the primary clock via the next Correction call.
func (s *Session) ToggleLink() bool {
	s.linked = !s.linked
	return s.linked
}

// SeekTo moves the primary clock, clamped to [0, durationA].
func (s *Session) SeekTo(seconds float64) float64 {
	s.position = clamp(seconds, 0, s.durationA)
	return s.position
}

// SeekFraction seeks by timeline click position in [0,1].
func (s *Session) SeekFraction(fraction float64) float64 {
	return s.SeekTo(clamp(fraction, 0, 1) * s.durationA)
}

// Advance moves the primary clock forward by dt seconds of playback.
// Hitting the end pauses.
func (s *Session) Advance(dt float64) float64 {
	if !s.playing {
		return s.position
	}
	s.position = clamp(s.position+dt, 0, s.durationA)
	if s.position >= s.durationA {
		s.playing = false
	}
	return s.position
}

// Correction returns the position side B must snap to given its
// reported clock, and whether a snap is needed. B's target is the
// primary clock clamped to B's own duration.
func (s *Session) Correction(reportedB float64) (float64, bool) {
	if !s.linked || s.durationB <= 0 {
		return 0, false
	}
	target := clamp(s.position, 0, s.durationB)
	if abs(reportedB-target) <= s.driftThreshold {
		return 0, false
	}
	return target, true
}

// KeyAction is the session mutation a keyboard event produced.
type KeyAction int

const (
	KeyIgnored KeyAction = iota
	KeyToggledPlay
	KeySeeked
)

// HandleKey applies a keyboard shortcut. Events originating from text
// inputs are ignored so typing feedback never drives the players.
func (s *Session) HandleKey(key string, inTextInput bool) KeyAction {
	if inTextInput {
		return KeyIgnored
	}
	switch key {
	case " ", "Space":
		s.TogglePlay()
		return KeyToggledPlay
	case "ArrowLeft":
		s.SeekTo(s.position - keyStepSeconds)
		return KeySeeked
	case "ArrowRight":
		s.SeekTo(s.position + keyStepSeconds)
		return KeySeeked
	}
	return KeyIgnored
}

// SideFeedback tags a feedback entry with the player side it belongs to.
type SideFeedback struct {
	Side string `json:"side"`
	model.Feedback
}

// Compose merges the feedback of both compared versions into one
// timeline ordered by start time.
func Compose(sideA, sideB []model.Feedback) []SideFeedback {
	merged := make([]SideFeedback, 0, len(sideA)+len(sideB))
	for _, f := range sideA {
		merged = append(merged, SideFeedback{Side: SideA, Feedback: f})
	}
	for _, f := range sideB {
		merged = append(merged, SideFeedback{Side: SideB, Feedback: f})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime < merged[j].StartTime
	})
	return merged
}

// Filter selects composed feedback by side, status, and priority.
// Empty fields match everything.
type Filter struct {
	Side     string
	Status   string
	Priority string
}

// Apply returns the entries matching the filter, preserving order.
func (f Filter) Apply(items []SideFeedback) []SideFeedback {
	var out []SideFeedback
	for _, item := range items {
		if f.Side != "" && item.Side != f.Side {
			continue
		}
		if f.Status != "" && item.Status != f.Status {
			continue
		}
		if f.Priority != "" && item.Priority != f.Priority {
			continue
		}
		out = append(out, item)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
