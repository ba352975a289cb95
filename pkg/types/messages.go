package types

import "encoding/json"

// Server -> Client events. Each carries one whole document.
const (
	EvtTimerUpdate    = "timer_update"    // engine.TimerState
	EvtSettingsUpdate = "settings_update" // session.Settings
	EvtRundownUpdate  = "rundown_update"  // rundown.Document
	EvtMessagesUpdate = "messages_update" // messages.Board
)

// Client -> Server commands.
const (
	CmdStartTimer = "start_timer" // {time?: number, type?: string}
	CmdPauseTimer = "pause_timer"
	CmdStopTimer  = "stop_timer" // alias of pause_timer
	CmdResetTimer = "reset_timer"
	CmdSetTimer   = "set_timer" // seconds
	CmdSetMode    = "set_mode"  // "countdown" | "countup" | "clock"

	CmdSetBeepEnabled = "set_beep_enabled" // boolean

	CmdRundownAddItem             = "rundown_add_item"    // partial item
	CmdRundownUpdateItem          = "rundown_update_item" // {id, patch}
	CmdRundownRemoveItem          = "rundown_remove_item" // id
	CmdRundownReorder             = "rundown_reorder"     // [id]
	CmdRundownSetAutoAdvance      = "rundown_set_auto_advance"
	CmdRundownSetViewerTitle      = "rundown_set_viewer_title"
	CmdRundownSetViewerTitleAlias = "rundown_set_viewer_title_stripe"
	CmdRundownSetViewerProgress   = "rundown_set_viewer_progress"
	CmdRundownStartItem           = "rundown_start_item" // id
	CmdRundownNext                = "rundown_next"
	CmdRundownPrev                = "rundown_prev"

	CmdMessageAdd     = "message_add"     // text
	CmdMessageUpdate  = "message_update"  // {id, text}
	CmdMessageRemove  = "message_remove"  // id
	CmdMessageReorder = "message_reorder" // [id]
	CmdMessageShow    = "message_show"    // id
	CmdMessageHide    = "message_hide"
)

// ClientMessage is a frame received from a display. Data stays raw until the
// gateway knows which command it belongs to.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
