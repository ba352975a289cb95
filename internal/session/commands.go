package session

import (
	"github.com/DoyleJ11/open-stage-timer/internal/engine"
	"github.com/DoyleJ11/open-stage-timer/internal/rundown"
)

// Command is one validated client request. The gateway builds these; nothing
// past this point deals with raw payloads.
type Command interface{ isCommand() }

type StartTimer struct{ Opts engine.StartOptions }
type PauseTimer struct{}
type ResetTimer struct{}
type SetTimer struct{ Seconds float64 }
type SetMode struct{ Mode engine.Mode }

type SetBeepEnabled struct{ Enabled bool }

type AddRundownItem struct{ Fields rundown.Fields }
type UpdateRundownItem struct {
	ID    string
	Patch rundown.Fields
}
type RemoveRundownItem struct{ ID string }
type ReorderRundown struct{ IDs []string }
type SetAutoAdvance struct{ Enabled bool }
type SetViewerTitle struct{ Enabled bool }
type SetViewerProgress struct{ Enabled bool }
type StartRundownItem struct{ ID string }
type RundownNext struct{}
type RundownPrev struct{}

type AddMessage struct{ Text string }
type UpdateMessage struct {
	ID   string
	Text string
}
type RemoveMessage struct{ ID string }
type ReorderMessages struct{ IDs []string }
type ShowMessage struct{ ID string }
type HideMessage struct{}

func (StartTimer) isCommand()        {}
func (PauseTimer) isCommand()        {}
func (ResetTimer) isCommand()        {}
func (SetTimer) isCommand()          {}
func (SetMode) isCommand()           {}
func (SetBeepEnabled) isCommand()    {}
func (AddRundownItem) isCommand()    {}
func (UpdateRundownItem) isCommand() {}
func (RemoveRundownItem) isCommand() {}
func (ReorderRundown) isCommand()    {}
func (SetAutoAdvance) isCommand()    {}
func (SetViewerTitle) isCommand()    {}
func (SetViewerProgress) isCommand() {}
func (StartRundownItem) isCommand()  {}
func (RundownNext) isCommand()       {}
func (RundownPrev) isCommand()       {}
func (AddMessage) isCommand()        {}
func (UpdateMessage) isCommand()     {}
func (RemoveMessage) isCommand()     {}
func (ReorderMessages) isCommand()   {}
func (ShowMessage) isCommand()       {}
func (HideMessage) isCommand()       {}
