package ws

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/DoyleJ11/open-stage-timer/internal/engine"
	"github.com/DoyleJ11/open-stage-timer/internal/rundown"
	"github.com/DoyleJ11/open-stage-timer/internal/session"
	"github.com/DoyleJ11/open-stage-timer/pkg/types"
)

// toSessionCommand validates a client frame. Anything malformed yields false
// and the frame is dropped without a reply.
func toSessionCommand(m types.ClientMessage) (session.Command, bool) {
	switch m.Type {
	case types.CmdStartTimer:
		return decodeStart(m.Data), true
	case types.CmdPauseTimer, types.CmdStopTimer:
		return session.PauseTimer{}, true
	case types.CmdResetTimer:
		return session.ResetTimer{}, true
	case types.CmdSetTimer:
		secs, ok := coerceNumber(m.Data)
		if !ok || secs < 0 {
			return nil, false
		}
		return session.SetTimer{Seconds: secs}, true
	case types.CmdSetMode:
		raw, ok := decodeString(m.Data)
		if !ok {
			return nil, false
		}
		mode, ok := engine.ParseMode(raw)
		if !ok {
			return nil, false
		}
		return session.SetMode{Mode: mode}, true

	case types.CmdSetBeepEnabled:
		v, ok := decodeBool(m.Data)
		return session.SetBeepEnabled{Enabled: v}, ok

	case types.CmdRundownAddItem:
		return session.AddRundownItem{Fields: decodeFields(decodeObject(m.Data))}, true
	case types.CmdRundownUpdateItem:
		obj := decodeObject(m.Data)
		id, ok := decodeString(obj["id"])
		if !ok {
			return nil, false
		}
		return session.UpdateRundownItem{ID: id, Patch: decodeFields(decodeObject(obj["patch"]))}, true
	case types.CmdRundownRemoveItem:
		id, ok := decodeString(m.Data)
		return session.RemoveRundownItem{ID: id}, ok
	case types.CmdRundownReorder:
		ids, ok := decodeIDs(m.Data)
		return session.ReorderRundown{IDs: ids}, ok
	case types.CmdRundownSetAutoAdvance:
		v, ok := decodeBool(m.Data)
		return session.SetAutoAdvance{Enabled: v}, ok
	case types.CmdRundownSetViewerTitle, types.CmdRundownSetViewerTitleAlias:
		v, ok := decodeBool(m.Data)
		return session.SetViewerTitle{Enabled: v}, ok
	case types.CmdRundownSetViewerProgress:
		v, ok := decodeBool(m.Data)
		return session.SetViewerProgress{Enabled: v}, ok
	case types.CmdRundownStartItem:
		id, ok := decodeString(m.Data)
		return session.StartRundownItem{ID: id}, ok
	case types.CmdRundownNext:
		return session.RundownNext{}, true
	case types.CmdRundownPrev:
		return session.RundownPrev{}, true

	case types.CmdMessageAdd:
		text, ok := decodeString(m.Data)
		return session.AddMessage{Text: text}, ok
	case types.CmdMessageUpdate:
		obj := decodeObject(m.Data)
		id, ok := decodeString(obj["id"])
		if !ok {
			return nil, false
		}
		text, ok := decodeString(obj["text"])
		if !ok {
			return nil, false
		}
		return session.UpdateMessage{ID: id, Text: text}, true
	case types.CmdMessageRemove:
		id, ok := decodeString(m.Data)
		return session.RemoveMessage{ID: id}, ok
	case types.CmdMessageReorder:
		ids, ok := decodeIDs(m.Data)
		return session.ReorderMessages{IDs: ids}, ok
	case types.CmdMessageShow:
		id, ok := decodeString(m.Data)
		return session.ShowMessage{ID: id}, ok
	case types.CmdMessageHide:
		return session.HideMessage{}, true

	default:
		return nil, false
	}
}

// decodeStart keeps a numeric time and a string type; other shapes are
// ignored and the timer simply starts.
func decodeStart(raw json.RawMessage) session.StartTimer {
	obj := decodeObject(raw)
	var cmd session.StartTimer

	var secs float64
	if isJSONNumber(obj["time"]) && json.Unmarshal(obj["time"], &secs) == nil {
		cmd.Opts.Time = &secs
	}
	if s, ok := decodeString(obj["type"]); ok {
		mode := engine.Mode(s)
		cmd.Opts.Type = &mode
	}
	return cmd
}

func decodeFields(obj map[string]json.RawMessage) rundown.Fields {
	var f rundown.Fields
	if s, ok := decodeString(obj["title"]); ok {
		f.Title = &s
	}
	if s, ok := decodeString(obj["notes"]); ok {
		f.Notes = &s
	}
	if s, ok := decodeString(obj["startTime"]); ok {
		f.StartTime = &s
	}
	if s, ok := decodeString(obj["color"]); ok {
		f.Color = &s
	}
	if n, ok := coerceNumber(obj["durationSec"]); ok {
		f.DurationSec = &n
	}
	if n, ok := coerceNumber(obj["warnPercent"]); ok {
		f.WarnPercent = &n
	}
	if n, ok := coerceNumber(obj["critPercent"]); ok {
		f.CritPercent = &n
	}
	return f
}

// decodeObject returns the members of a JSON object, or an empty map for
// anything else.
func decodeObject(raw json.RawMessage) map[string]json.RawMessage {
	obj := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return obj
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return map[string]json.RawMessage{}
	}
	return obj
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

// decodeBool accepts JSON booleans and their string spellings.
func decodeBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if !isNull(raw) && json.Unmarshal(raw, &b) == nil {
		return b, true
	}
	if s, ok := decodeString(raw); ok {
		if v, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return v, true
		}
	}
	return false, false
}

// decodeIDs reads a list of ids, skipping entries that are not strings.
func decodeIDs(raw json.RawMessage) ([]string, bool) {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return nil, false
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if id, ok := decodeString(it); ok {
			ids = append(ids, id)
		}
	}
	return ids, true
}

// coerceNumber accepts a JSON number or a numeric string, and rejects NaN
// and infinities.
func coerceNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n float64
	if isJSONNumber(raw) {
		if json.Unmarshal(raw, &n) != nil {
			return 0, false
		}
	} else {
		s, ok := decodeString(raw)
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		n = v
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// isNull reports a missing value or a JSON null.
func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func isJSONNumber(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	c := raw[0]
	return c == '-' || (c >= '0' && c <= '9')
}
