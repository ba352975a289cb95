package rundown

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// withSequentialIDs makes generated ids predictable for the duration of a test.
func withSequentialIDs(t *testing.T) {
	t.Helper()
	prev := newID
	n := 0
	newID = func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	t.Cleanup(func() { newID = prev })
}

func threeItems(t *testing.T) Document {
	t.Helper()
	doc := NewDocument()
	doc = AddItem(doc, Fields{Title: ptr("A"), DurationSec: ptr(10.0)})
	doc = AddItem(doc, Fields{Title: ptr("B"), DurationSec: ptr(0.0)})
	doc = AddItem(doc, Fields{Title: ptr("C"), DurationSec: ptr(5.0)})
	require.Len(t, doc.Items, 3)
	return doc
}

func runningCount(doc Document) int {
	n := 0
	for _, it := range doc.Items {
		if it.Status == StatusRunning {
			n++
		}
	}
	return n
}

func TestAddItem_Defaults(t *testing.T) {
	withSequentialIDs(t)

	doc := AddItem(NewDocument(), Fields{})
	require.Len(t, doc.Items, 1)

	it := doc.Items[0]
	assert.Equal(t, "item-1", it.ID)
	assert.Equal(t, DefaultTitle, it.Title)
	assert.Equal(t, DefaultColor, it.Color)
	assert.Equal(t, 0, it.DurationSec)
	assert.Equal(t, StatusPending, it.Status)
	assert.InDelta(t, 0.20, it.WarnPercent, 1e-9)
	assert.InDelta(t, 0.10, it.CritPercent, 1e-9)
}

func TestAddItem_DoesNotMutateInput(t *testing.T) {
	base := AddItem(NewDocument(), Fields{Title: ptr("first")})
	_ = AddItem(base, Fields{Title: ptr("second")})

	assert.Len(t, base.Items, 1)
}

func TestAddItem_Fields(t *testing.T) {
	cases := []struct {
		name   string
		fields Fields
		check  func(t *testing.T, it Item)
	}{
		{
			name:   "duration floors",
			fields: Fields{DurationSec: ptr(90.7)},
			check:  func(t *testing.T, it Item) { assert.Equal(t, 90, it.DurationSec) },
		},
		{
			name:   "negative duration clamps",
			fields: Fields{DurationSec: ptr(-30.0)},
			check:  func(t *testing.T, it Item) { assert.Equal(t, 0, it.DurationSec) },
		},
		{
			name:   "title derived from notes",
			fields: Fields{Notes: ptr("\n  Panel Q&A  \nsecond line")},
			check:  func(t *testing.T, it Item) { assert.Equal(t, "Panel Q&A", it.Title) },
		},
		{
			name:   "explicit title wins over notes",
			fields: Fields{Title: ptr("Keynote"), Notes: ptr("ignored")},
			check:  func(t *testing.T, it Item) { assert.Equal(t, "Keynote", it.Title) },
		},
		{
			name:   "percents clamp to unit range",
			fields: Fields{WarnPercent: ptr(-1.0), CritPercent: ptr(0.5)},
			check: func(t *testing.T, it Item) {
				assert.Equal(t, 0.0, it.WarnPercent)
				assert.Equal(t, 0.5, it.CritPercent)
			},
		},
		{
			name:   "percents rescale keeping ratio",
			fields: Fields{WarnPercent: ptr(0.6), CritPercent: ptr(0.6)},
			check: func(t *testing.T, it Item) {
				assert.InDelta(t, 0.475, it.WarnPercent, 1e-9)
				assert.InDelta(t, 0.475, it.CritPercent, 1e-9)
				assert.LessOrEqual(t, it.WarnPercent+it.CritPercent, MaxAlertPercent+1e-9)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := AddItem(NewDocument(), tc.fields)
			tc.check(t, doc.Items[0])
		})
	}
}

func TestNormalizePercents_SumNeverExceedsBound(t *testing.T) {
	for _, pair := range [][2]float64{{1, 1}, {0.9, 0.1}, {0.7, 0.3}, {0.333, 0.667}, {2, 0}} {
		w, c := NormalizePercents(pair[0], pair[1])
		assert.LessOrEqual(t, w+c, MaxAlertPercent+1e-9, "pair %v", pair)
	}

	w, c := NormalizePercents(0.9, 0.3)
	assert.InDelta(t, 3.0, w/c, 0.01)
}

func TestUpdateItem(t *testing.T) {
	withSequentialIDs(t)
	doc := threeItems(t)

	next, ok := UpdateItem(doc, "item-1", Fields{Title: ptr("Opening"), DurationSec: ptr(-5.0)})
	require.True(t, ok)
	assert.Equal(t, "Opening", next.Items[0].Title)
	assert.Equal(t, 0, next.Items[0].DurationSec)
	assert.Equal(t, "A", doc.Items[0].Title, "input document must not change")

	next, ok = UpdateItem(doc, "item-2", Fields{WarnPercent: ptr(0.9)})
	require.True(t, ok)
	assert.LessOrEqual(t, next.Items[1].WarnPercent+next.Items[1].CritPercent, MaxAlertPercent+1e-9)

	_, ok = UpdateItem(doc, "ghost", Fields{Title: ptr("x")})
	assert.False(t, ok)
}

func TestUpdateItem_BlankTitleIsDerived(t *testing.T) {
	withSequentialIDs(t)
	doc := threeItems(t)

	next, ok := UpdateItem(doc, "item-1", Fields{Title: ptr("  "), Notes: ptr("\nWelcome remarks\nthen slides")})
	require.True(t, ok)
	assert.Equal(t, "Welcome remarks", next.Items[0].Title)

	next, ok = UpdateItem(next, "item-1", Fields{Title: ptr(""), Notes: ptr("")})
	require.True(t, ok)
	assert.Equal(t, DefaultTitle, next.Items[0].Title)
}

func TestRemoveItem_AdjustsActiveIndex(t *testing.T) {
	withSequentialIDs(t)
	doc := threeItems(t)
	doc, ok := StartItem(doc, "item-2")
	require.True(t, ok)
	require.Equal(t, 1, *doc.ActiveIndex)

	removedActive, ok := RemoveItem(doc, doc.Items[1].ID)
	require.True(t, ok)
	assert.Nil(t, removedActive.ActiveIndex)
	assert.Len(t, removedActive.Items, 2)

	removedBefore, ok := RemoveItem(doc, doc.Items[0].ID)
	require.True(t, ok)
	require.NotNil(t, removedBefore.ActiveIndex)
	assert.Equal(t, 0, *removedBefore.ActiveIndex)

	removedAfter, ok := RemoveItem(doc, doc.Items[2].ID)
	require.True(t, ok)
	assert.Equal(t, 1, *removedAfter.ActiveIndex)

	_, ok = RemoveItem(doc, "ghost")
	assert.False(t, ok)
}

func TestReorder_DropsUnknownAndMissing(t *testing.T) {
	withSequentialIDs(t)
	doc := threeItems(t)

	next := Reorder(doc, []string{"item-3", "ghost", "item-1"})
	require.Len(t, next.Items, 2)
	assert.Equal(t, "C", next.Items[0].Title)
	assert.Equal(t, "A", next.Items[1].Title)
}

func TestReorder_TracksActiveByID(t *testing.T) {
	withSequentialIDs(t)
	doc, _ := StartItem(threeItems(t), "item-1")

	next := Reorder(doc, []string{"item-2", "item-3", "item-1"})
	require.NotNil(t, next.ActiveIndex)
	assert.Equal(t, 2, *next.ActiveIndex)
	active, ok := next.Active()
	require.True(t, ok)
	assert.Equal(t, "item-1", active.ID)

	dropped := Reorder(doc, []string{"item-2", "item-3"})
	assert.Nil(t, dropped.ActiveIndex)
}

func TestReorder_IgnoresDuplicateIDs(t *testing.T) {
	withSequentialIDs(t)
	next := Reorder(threeItems(t), []string{"item-2", "item-2", "item-1"})
	assert.Len(t, next.Items, 2)
}

func TestStartItem_AtMostOneRunning(t *testing.T) {
	withSequentialIDs(t)
	doc := threeItems(t)

	for _, id := range []string{"item-1", "item-3", "item-2", "ghost", "item-3"} {
		next, ok := StartItem(doc, id)
		if id == "ghost" {
			assert.False(t, ok)
			assert.Equal(t, doc, next)
		}
		doc = next
		assert.LessOrEqual(t, runningCount(doc), 1)
		if doc.ActiveIndex != nil {
			assert.Equal(t, StatusRunning, doc.Items[*doc.ActiveIndex].Status)
		}
	}
	assert.Equal(t, 2, *doc.ActiveIndex)
}

func TestStartItem_ResetsDoneItems(t *testing.T) {
	withSequentialIDs(t)
	doc, _ := StartItem(threeItems(t), "item-1")
	doc, _ = MarkDone(doc, 0)
	require.Equal(t, StatusDone, doc.Items[0].Status)

	doc, _ = StartItem(doc, "item-2")
	assert.Equal(t, StatusPending, doc.Items[0].Status)
	assert.Equal(t, StatusRunning, doc.Items[1].Status)
}

func TestMarkDone(t *testing.T) {
	doc := AddItem(NewDocument(), Fields{})

	next, ok := MarkDone(doc, 0)
	assert.True(t, ok)
	assert.Equal(t, StatusDone, next.Items[0].Status)
	assert.Equal(t, StatusPending, doc.Items[0].Status)

	_, ok = MarkDone(doc, 1)
	assert.False(t, ok)
	_, ok = MarkDone(doc, -1)
	assert.False(t, ok)
}

func TestNextAndPrevIndex(t *testing.T) {
	withSequentialIDs(t)
	doc := threeItems(t)

	_, ok := NextIndex(doc)
	assert.False(t, ok, "no active item")

	doc, _ = StartItem(doc, "item-2")
	n, ok := NextIndex(doc)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	p, ok := PrevIndex(doc)
	assert.True(t, ok)
	assert.Equal(t, 0, p)

	doc, _ = StartItem(doc, "item-3")
	_, ok = NextIndex(doc)
	assert.False(t, ok, "last item")

	doc, _ = StartItem(doc, "item-1")
	_, ok = PrevIndex(doc)
	assert.False(t, ok, "first item")
}

func TestResumeIndex(t *testing.T) {
	withSequentialIDs(t)
	doc := threeItems(t)

	n, ok := ResumeIndex(doc)
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	doc, _ = MarkDone(doc, 0)
	n, ok = ResumeIndex(doc)
	assert.True(t, ok)
	assert.Equal(t, 2, n, "zero-length B is passed over")

	doc, _ = MarkDone(doc, 2)
	_, ok = ResumeIndex(doc)
	assert.False(t, ok)

	_, ok = ResumeIndex(NewDocument())
	assert.False(t, ok)
}
