package session

import (
	"github.com/DoyleJ11/open-stage-timer/internal/engine"
	"github.com/DoyleJ11/open-stage-timer/internal/messages"
	"github.com/DoyleJ11/open-stage-timer/internal/rundown"
	"github.com/DoyleJ11/open-stage-timer/pkg/types"
)

// Apply runs one command against s and returns the new state plus the
// updates to broadcast. No updates means the command changed nothing: an
// unknown id, an out-of-range value, or a repeat of the current value.
func Apply(s State, cmd Command) (State, []types.ServerMessage) {
	next := s

	switch c := cmd.(type) {
	case StartTimer:
		next.Timer = engine.Start(s.Timer, c.Opts)
		return timerChanged(s, next)
	case PauseTimer:
		next.Timer = engine.Pause(s.Timer)
		return timerChanged(s, next)
	case ResetTimer:
		next.Timer = engine.Reset(s.Timer)
		return timerChanged(s, next)
	case SetTimer:
		next.Timer = engine.SetTime(s.Timer, c.Seconds)
		return timerChanged(s, next)
	case SetMode:
		next.Timer = engine.SetMode(s.Timer, c.Mode)
		return timerChanged(s, next)

	case SetBeepEnabled:
		if s.Settings.BeepEnabled == c.Enabled {
			return s, nil
		}
		next.Settings.BeepEnabled = c.Enabled
		return next, []types.ServerMessage{next.settingsUpdate()}

	case AddRundownItem:
		next.Rundown = rundown.AddItem(s.Rundown, c.Fields)
		return next, []types.ServerMessage{next.rundownUpdate()}
	case UpdateRundownItem:
		doc, ok := rundown.UpdateItem(s.Rundown, c.ID, c.Patch)
		return rundownChanged(s, doc, ok)
	case RemoveRundownItem:
		doc, ok := rundown.RemoveItem(s.Rundown, c.ID)
		return rundownChanged(s, doc, ok)
	case ReorderRundown:
		next.Rundown = rundown.Reorder(s.Rundown, c.IDs)
		return next, []types.ServerMessage{next.rundownUpdate()}
	case SetAutoAdvance:
		doc := s.Rundown
		doc.AutoAdvance = c.Enabled
		return rundownChanged(s, doc, s.Rundown.AutoAdvance != c.Enabled)
	case SetViewerTitle:
		doc := s.Rundown
		doc.ShowViewerTitle = c.Enabled
		return rundownChanged(s, doc, s.Rundown.ShowViewerTitle != c.Enabled)
	case SetViewerProgress:
		doc := s.Rundown
		doc.ShowViewerProgress = c.Enabled
		return rundownChanged(s, doc, s.Rundown.ShowViewerProgress != c.Enabled)
	case StartRundownItem:
		return startItem(s, c.ID)
	case RundownNext:
		idx, ok := rundown.NextIndex(s.Rundown)
		if !ok && s.Rundown.ActiveIndex == nil {
			idx, ok = rundown.ResumeIndex(s.Rundown)
		}
		if !ok {
			return s, nil
		}
		return startItem(s, s.Rundown.Items[idx].ID)
	case RundownPrev:
		idx, ok := rundown.PrevIndex(s.Rundown)
		if !ok {
			return s, nil
		}
		return startItem(s, s.Rundown.Items[idx].ID)

	case AddMessage:
		board, ok := messages.Add(s.Messages, c.Text)
		return messagesChanged(s, board, ok)
	case UpdateMessage:
		board, ok := messages.Update(s.Messages, c.ID, c.Text)
		return messagesChanged(s, board, ok)
	case RemoveMessage:
		board, ok := messages.Remove(s.Messages, c.ID)
		return messagesChanged(s, board, ok)
	case ReorderMessages:
		next.Messages = messages.Reorder(s.Messages, c.IDs)
		return next, []types.ServerMessage{next.messagesUpdate()}
	case ShowMessage:
		board, ok := messages.Show(s.Messages, c.ID)
		return messagesChanged(s, board, ok)
	case HideMessage:
		board, ok := messages.Hide(s.Messages)
		return messagesChanged(s, board, ok)

	default:
		return s, nil
	}
}

// startItem puts the item on air and loads a fresh countdown for it.
func startItem(s State, id string) (State, []types.ServerMessage) {
	doc, ok := rundown.StartItem(s.Rundown, id)
	if !ok {
		return s, nil
	}
	item, _ := doc.Active()

	next := s
	next.Rundown = doc
	next.Timer = engine.Countdown(item.DurationSec)
	return next, []types.ServerMessage{next.timerUpdate(), next.rundownUpdate()}
}

func timerChanged(prev, next State) (State, []types.ServerMessage) {
	if prev.Timer == next.Timer {
		return prev, nil
	}
	return next, []types.ServerMessage{next.timerUpdate()}
}

func rundownChanged(s State, doc rundown.Document, ok bool) (State, []types.ServerMessage) {
	if !ok {
		return s, nil
	}
	s.Rundown = doc
	return s, []types.ServerMessage{s.rundownUpdate()}
}

func messagesChanged(s State, board messages.Board, ok bool) (State, []types.ServerMessage) {
	if !ok {
		return s, nil
	}
	s.Messages = board
	return s, []types.ServerMessage{s.messagesUpdate()}
}
