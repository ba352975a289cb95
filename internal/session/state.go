package session

import (
	"github.com/DoyleJ11/open-stage-timer/internal/engine"
	"github.com/DoyleJ11/open-stage-timer/internal/messages"
	"github.com/DoyleJ11/open-stage-timer/internal/rundown"
	"github.com/DoyleJ11/open-stage-timer/pkg/types"
)

// Settings are forwarded to displays; the server never acts on them.
type Settings struct {
	BeepEnabled bool `json:"beepEnabled"`
}

// State is the whole authoritative document set. Values are shared with
// readers, so every change goes through a transform that copies.
type State struct {
	Timer    engine.TimerState `json:"timer"`
	Settings Settings          `json:"settings"`
	Rundown  rundown.Document  `json:"rundown"`
	Messages messages.Board    `json:"messages"`
}

func NewState() State {
	return State{
		Timer:    engine.NewTimerState(),
		Settings: Settings{BeepEnabled: true},
		Rundown:  rundown.NewDocument(),
		Messages: messages.NewBoard(),
	}
}

// Snapshot is every document, in the order a joining display receives them.
func (s State) Snapshot() []types.ServerMessage {
	return []types.ServerMessage{
		s.timerUpdate(),
		s.settingsUpdate(),
		s.rundownUpdate(),
		s.messagesUpdate(),
	}
}

func (s State) timerUpdate() types.ServerMessage {
	return types.ServerMessage{Type: types.EvtTimerUpdate, Data: s.Timer}
}

func (s State) settingsUpdate() types.ServerMessage {
	return types.ServerMessage{Type: types.EvtSettingsUpdate, Data: s.Settings}
}

func (s State) rundownUpdate() types.ServerMessage {
	return types.ServerMessage{Type: types.EvtRundownUpdate, Data: s.Rundown}
}

func (s State) messagesUpdate() types.ServerMessage {
	return types.ServerMessage{Type: types.EvtMessagesUpdate, Data: s.Messages}
}
