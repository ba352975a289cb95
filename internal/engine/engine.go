package engine

import "time"

type Mode string

const (
	ModeCountdown Mode = "countdown"
	ModeCountup   Mode = "countup"
	ModeClock     Mode = "clock"
)

// TimerState is the on-air timer. Time is whole seconds: remaining for a
// countdown, elapsed for a count-up, seconds since local midnight for clock.
type TimerState struct {
	Time    int  `json:"time"`
	Running bool `json:"running"`
	Type    Mode `json:"type"`
}

// StartOptions carries the optional overrides of a start command. Nil fields
// leave the current value alone.
type StartOptions struct {
	Time *float64
	Type *Mode
}

// Tick advances the timer by one second. now is only read in clock mode.
func Tick(s TimerState, now time.Time) TimerState {
	next := s
	if s.Type == ModeClock {
		next.Time = secondsSinceMidnight(now)
		return next
	}
	if !s.Running {
		return next
	}

	switch s.Type {
	case ModeCountdown:
		next.Time = max(0, s.Time-1)
		if next.Time == 0 {
			next.Running = false
		}
	case ModeCountup:
		next.Time = s.Time + 1
	}
	return next
}

func Start(s TimerState, opts StartOptions) TimerState {
	next := s
	if opts.Time != nil && isFinite(*opts.Time) {
		next.Time = clampSeconds(*opts.Time)
	}
	if opts.Type != nil && opts.Type.Valid() {
		next.Type = *opts.Type
	}
	next.Running = true
	return next
}

func Pause(s TimerState) TimerState {
	s.Running = false
	return s
}

func Reset(s TimerState) TimerState {
	s.Running = false
	s.Time = 0
	return s
}

// SetTime ignores negative or non-finite values.
func SetTime(s TimerState, seconds float64) TimerState {
	if !isFinite(seconds) || seconds < 0 {
		return s
	}
	s.Time = clampSeconds(seconds)
	return s
}

func SetMode(s TimerState, mode Mode) TimerState {
	if !mode.Valid() {
		return s
	}
	s.Type = mode
	return s
}

// Countdown is the timer a rundown segment starts with. A segment without a
// duration loads a stopped timer at zero.
func Countdown(durationSec int) TimerState {
	d := max(0, durationSec)
	return TimerState{Time: d, Running: d > 0, Type: ModeCountdown}
}
