package messages

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// MaxTextLength caps message text, in characters.
const MaxTextLength = 400

type Message struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Board holds the operator messages. ActiveID, when set, names the message
// currently shown on viewers and always refers to an existing item.
type Board struct {
	Items    []Message `json:"items"`
	ActiveID *string   `json:"activeId"`
}

var newID = uuid.NewString

func NewBoard() Board {
	return Board{Items: []Message{}}
}

// Add appends trimmed text. Blank text is ignored.
func Add(b Board, text string) (Board, bool) {
	text = capText(strings.TrimSpace(text))
	if text == "" {
		return b, false
	}

	next := b
	next.Items = append(slices.Clone(b.Items), Message{ID: newID(), Text: text})
	return next, true
}

// Update replaces the text of a message. Text is trimmed like Add, but empty
// text is allowed here so an editor can clear a message before retyping it.
func Update(b Board, id, text string) (Board, bool) {
	idx := b.indexOf(id)
	if idx == -1 {
		return b, false
	}

	next := b
	next.Items = slices.Clone(b.Items)
	next.Items[idx].Text = capText(strings.TrimSpace(text))
	return next, true
}

func Remove(b Board, id string) (Board, bool) {
	idx := b.indexOf(id)
	if idx == -1 {
		return b, false
	}

	next := b
	next.Items = slices.Delete(slices.Clone(b.Items), idx, idx+1)
	if b.ActiveID != nil && *b.ActiveID == id {
		next.ActiveID = nil
	}
	return next, true
}

// Reorder rebuilds Items in the order of ids, dropping unknown ids and any
// message not listed. A dropped live message is taken off air.
func Reorder(b Board, ids []string) Board {
	byID := make(map[string]Message, len(b.Items))
	for _, m := range b.Items {
		byID[m.ID] = m
	}

	next := b
	next.Items = make([]Message, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		next.Items = append(next.Items, m)
	}
	if b.ActiveID != nil && next.indexOf(*b.ActiveID) == -1 {
		next.ActiveID = nil
	}
	return next
}

func Show(b Board, id string) (Board, bool) {
	if b.indexOf(id) == -1 {
		return b, false
	}
	b.ActiveID = &id
	return b, true
}

func Hide(b Board) (Board, bool) {
	if b.ActiveID == nil {
		return b, false
	}
	b.ActiveID = nil
	return b, true
}

func (b Board) indexOf(id string) int {
	return slices.IndexFunc(b.Items, func(m Message) bool { return m.ID == id })
}

func capText(s string) string {
	if r := []rune(s); len(r) > MaxTextLength {
		return string(r[:MaxTextLength])
	}
	return s
}
