package rundown

import (
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
)

const (
	DefaultTitle       = "Untitled"
	DefaultColor       = "#2ecc71"
	DefaultWarnPercent = 0.20
	DefaultCritPercent = 0.10

	// MaxAlertPercent leaves part of every segment outside warn and crit.
	MaxAlertPercent = 0.95

	maxDerivedTitle = 80
)

type Item struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Notes       string  `json:"notes"`
	StartTime   string  `json:"startTime"`
	DurationSec int     `json:"durationSec"`
	Status      Status  `json:"status"`
	Color       string  `json:"color"`
	WarnPercent float64 `json:"warnPercent"`
	CritPercent float64 `json:"critPercent"`
}

// Document is treated as immutable: every transform copies Items before
// touching them, so a Document handed to readers never changes underneath.
type Document struct {
	Items              []Item `json:"items"`
	ActiveIndex        *int   `json:"activeIndex"`
	AutoAdvance        bool   `json:"autoAdvance"`
	ShowViewerTitle    bool   `json:"showViewerTitle"`
	ShowViewerProgress bool   `json:"showViewerProgress"`
}

// Fields is a partial item. Nil means "not supplied".
type Fields struct {
	Title       *string  `json:"title,omitempty" yaml:"title"`
	Notes       *string  `json:"notes,omitempty" yaml:"notes"`
	StartTime   *string  `json:"startTime,omitempty" yaml:"startTime"`
	DurationSec *float64 `json:"durationSec,omitempty" yaml:"durationSec"`
	Color       *string  `json:"color,omitempty" yaml:"color"`
	WarnPercent *float64 `json:"warnPercent,omitempty" yaml:"warnPercent"`
	CritPercent *float64 `json:"critPercent,omitempty" yaml:"critPercent"`
}

var newID = uuid.NewString

func NewDocument() Document {
	return Document{Items: []Item{}}
}

func AddItem(doc Document, f Fields) Document {
	warn, crit := NormalizePercents(
		valueOr(f.WarnPercent, DefaultWarnPercent),
		valueOr(f.CritPercent, DefaultCritPercent),
	)
	notes := valueOr(f.Notes, "")
	item := Item{
		ID:          newID(),
		Title:       deriveTitle(valueOr(f.Title, ""), notes),
		Notes:       notes,
		StartTime:   valueOr(f.StartTime, ""),
		DurationSec: clampDuration(valueOr(f.DurationSec, 0)),
		Status:      StatusPending,
		Color:       valueOr(f.Color, ""),
		WarnPercent: warn,
		CritPercent: crit,
	}
	if item.Color == "" {
		item.Color = DefaultColor
	}

	next := doc
	next.Items = append(slices.Clone(doc.Items), item)
	return next
}

// UpdateItem applies the supplied fields to the item with the given id.
func UpdateItem(doc Document, id string, patch Fields) (Document, bool) {
	idx := doc.indexOf(id)
	if idx == -1 {
		return doc, false
	}

	it := doc.Items[idx]
	if patch.Notes != nil {
		it.Notes = *patch.Notes
	}
	if patch.Title != nil {
		it.Title = deriveTitle(*patch.Title, it.Notes)
	}
	if patch.StartTime != nil {
		it.StartTime = *patch.StartTime
	}
	if patch.Color != nil {
		it.Color = *patch.Color
	}
	if patch.DurationSec != nil {
		it.DurationSec = clampDuration(*patch.DurationSec)
	}
	if patch.WarnPercent != nil || patch.CritPercent != nil {
		it.WarnPercent, it.CritPercent = NormalizePercents(
			valueOr(patch.WarnPercent, it.WarnPercent),
			valueOr(patch.CritPercent, it.CritPercent),
		)
	}

	next := doc
	next.Items = slices.Clone(doc.Items)
	next.Items[idx] = it
	return next, true
}

func RemoveItem(doc Document, id string) (Document, bool) {
	idx := doc.indexOf(id)
	if idx == -1 {
		return doc, false
	}

	next := doc
	next.Items = slices.Delete(slices.Clone(doc.Items), idx, idx+1)
	if doc.ActiveIndex != nil {
		switch active := *doc.ActiveIndex; {
		case idx < active:
			next.ActiveIndex = intPtr(active - 1)
		case idx == active:
			next.ActiveIndex = nil
		}
	}
	return next, true
}

// Reorder rebuilds Items in the order of ids. Unknown ids are ignored and
// items missing from ids are dropped. The active pointer follows the active
// item by id, or clears if that item was dropped.
func Reorder(doc Document, ids []string) Document {
	byID := make(map[string]Item, len(doc.Items))
	for _, it := range doc.Items {
		byID[it.ID] = it
	}

	activeID := ""
	if it, ok := doc.Active(); ok {
		activeID = it.ID
	}

	next := doc
	next.Items = make([]Item, 0, len(ids))
	next.ActiveIndex = nil
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		if id == activeID {
			next.ActiveIndex = intPtr(len(next.Items))
		}
		next.Items = append(next.Items, it)
	}
	return next
}

// StartItem makes the item with the given id the only running item.
func StartItem(doc Document, id string) (Document, bool) {
	idx := doc.indexOf(id)
	if idx == -1 {
		return doc, false
	}

	next := doc
	next.Items = make([]Item, len(doc.Items))
	for i, it := range doc.Items {
		it.Status = StatusPending
		next.Items[i] = it
	}
	next.Items[idx].Status = StatusRunning
	next.ActiveIndex = intPtr(idx)
	return next, true
}

func MarkDone(doc Document, index int) (Document, bool) {
	if index < 0 || index >= len(doc.Items) {
		return doc, false
	}

	next := doc
	next.Items = slices.Clone(doc.Items)
	next.Items[index].Status = StatusDone
	return next, true
}

// ClearActive drops the active pointer without touching statuses.
func ClearActive(doc Document) Document {
	doc.ActiveIndex = nil
	return doc
}

// NextIndex returns the position after the active item, if there is one.
func NextIndex(doc Document) (int, bool) {
	if doc.ActiveIndex == nil {
		return 0, false
	}
	n := *doc.ActiveIndex + 1
	if n >= len(doc.Items) {
		return 0, false
	}
	return n, true
}

func PrevIndex(doc Document) (int, bool) {
	if doc.ActiveIndex == nil {
		return 0, false
	}
	p := *doc.ActiveIndex - 1
	if p < 0 || p >= len(doc.Items) {
		return 0, false
	}
	return p, true
}

// ResumeIndex is where a manual "next" lands when nothing is active: the
// first item with a duration after the last finished one. Zero-length items
// in between were skipped by auto-advance and stay skipped.
func ResumeIndex(doc Document) (int, bool) {
	n := 0
	for i, it := range doc.Items {
		if it.Status == StatusDone {
			n = i + 1
		}
	}
	for ; n < len(doc.Items); n++ {
		if doc.Items[n].DurationSec > 0 {
			return n, true
		}
	}
	return 0, false
}

func (d Document) Active() (Item, bool) {
	if d.ActiveIndex == nil {
		return Item{}, false
	}
	i := *d.ActiveIndex
	if i < 0 || i >= len(d.Items) {
		return Item{}, false
	}
	return d.Items[i], true
}

func (d Document) indexOf(id string) int {
	return slices.IndexFunc(d.Items, func(it Item) bool { return it.ID == id })
}

// NormalizePercents clamps each value to [0,1] and, when their sum exceeds
// MaxAlertPercent, scales both down keeping their ratio.
func NormalizePercents(warn, crit float64) (float64, float64) {
	warn, crit = clamp01(warn), clamp01(crit)
	if sum := warn + crit; sum > MaxAlertPercent {
		scale := MaxAlertPercent / sum
		warn = round3(warn * scale)
		crit = round3(crit * scale)
		if warn+crit > MaxAlertPercent {
			crit = MaxAlertPercent - warn
		}
	}
	return warn, crit
}

func deriveTitle(title, notes string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	for line := range strings.Lines(notes) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxDerivedTitle {
			line = string(r[:maxDerivedTitle])
		}
		return line
	}
	return DefaultTitle
}

func clampDuration(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int(math.Min(math.MaxInt32, math.Floor(v)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func intPtr(i int) *int { return &i }
