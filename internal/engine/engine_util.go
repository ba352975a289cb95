package engine

import (
	"math"
	"time"
)

func NewTimerState() TimerState {
	return TimerState{Time: 0, Running: false, Type: ModeCountdown}
}

func (m Mode) Valid() bool {
	switch m {
	case ModeCountdown, ModeCountup, ModeClock:
		return true
	default:
		return false
	}
}

// ParseMode checks a raw string against the allowed modes.
func ParseMode(raw string) (Mode, bool) {
	m := Mode(raw)
	return m, m.Valid()
}

func secondsSinceMidnight(now time.Time) int {
	return now.Hour()*3600 + now.Minute()*60 + now.Second()
}

// maxSeconds keeps float to int conversion in range.
const maxSeconds = math.MaxInt32

func clampSeconds(v float64) int {
	return int(math.Min(maxSeconds, math.Max(0, math.Floor(v))))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
