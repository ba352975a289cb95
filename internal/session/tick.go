package session

import (
	"time"

	"github.com/DoyleJ11/open-stage-timer/internal/engine"
	"github.com/DoyleJ11/open-stage-timer/internal/rundown"
	"github.com/DoyleJ11/open-stage-timer/pkg/types"
)

// Tick is one beat of the broadcast clock.
//
// Clock mode always re-reads wall time. A stopped timer produces nothing. A
// countdown that goes from one to zero while a rundown item is active finishes that
// item and, with auto-advance on, starts the next one, or skips it when it
// has no duration. Only one item moves per tick; consecutive zero-length
// items are never skipped in a single beat.
func Tick(s State, now time.Time) (State, []types.ServerMessage) {
	next := s
	if s.Timer.Type == engine.ModeClock {
		next.Timer = engine.Tick(s.Timer, now)
		return next, []types.ServerMessage{next.timerUpdate()}
	}
	if !s.Timer.Running {
		return s, nil
	}

	next.Timer = engine.Tick(s.Timer, now)
	if s.Timer.Type != engine.ModeCountdown || s.Timer.Time == 0 || next.Timer.Time != 0 || s.Rundown.ActiveIndex == nil {
		return next, []types.ServerMessage{next.timerUpdate()}
	}

	next.Rundown, _ = rundown.MarkDone(s.Rundown, *s.Rundown.ActiveIndex)
	if n, ok := rundown.NextIndex(next.Rundown); ok && next.Rundown.AutoAdvance {
		if item := next.Rundown.Items[n]; item.DurationSec > 0 {
			next.Rundown, _ = rundown.StartItem(next.Rundown, item.ID)
			next.Timer = engine.Countdown(item.DurationSec)
		} else {
			next.Rundown = rundown.ClearActive(next.Rundown)
		}
	}
	return next, next.Snapshot()
}
