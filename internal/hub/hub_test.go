package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/open-stage-timer/pkg/types"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, zap.NewNop())
}

func recv(t *testing.T, ch <-chan types.ServerMessage) types.ServerMessage {
	t.Helper()
	select {
	case m, ok := <-ch:
		require.True(t, ok, "outbox closed unexpectedly")
		return m
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timed out waiting for message")
		return types.ServerMessage{}
	}
}

func count(t *testing.T, h *Hub) int {
	t.Helper()
	reply := make(chan int, 1)
	h.Inbox() <- Count{Reply: reply}
	select {
	case n := <-reply:
		return n
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timed out waiting for count")
		return 0
	}
}

func TestHub_ReplayPrecedesBroadcast(t *testing.T) {
	h := newTestHub(t)
	out := make(chan types.ServerMessage, 8)

	h.Inbox() <- Register{
		ClientID: "c1",
		Outbox:   out,
		Replay:   []types.ServerMessage{{Type: types.EvtTimerUpdate}, {Type: types.EvtRundownUpdate}},
	}
	h.Inbox() <- Publish{Messages: []types.ServerMessage{{Type: types.EvtMessagesUpdate}}}

	assert.Equal(t, types.EvtTimerUpdate, recv(t, out).Type)
	assert.Equal(t, types.EvtRundownUpdate, recv(t, out).Type)
	assert.Equal(t, types.EvtMessagesUpdate, recv(t, out).Type)
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	h := newTestHub(t)
	a := make(chan types.ServerMessage, 4)
	b := make(chan types.ServerMessage, 4)
	h.Inbox() <- Register{ClientID: "a", Outbox: a}
	h.Inbox() <- Register{ClientID: "b", Outbox: b}

	h.Inbox() <- Publish{Messages: []types.ServerMessage{{Type: types.EvtSettingsUpdate}}}

	assert.Equal(t, types.EvtSettingsUpdate, recv(t, a).Type)
	assert.Equal(t, types.EvtSettingsUpdate, recv(t, b).Type)
	assert.Equal(t, 2, count(t, h))
}

func TestHub_DropSlowClient(t *testing.T) {
	h := newTestHub(t)
	out := make(chan types.ServerMessage, 1)
	h.Inbox() <- Register{ClientID: "slow", Outbox: out}

	h.Inbox() <- Publish{Messages: []types.ServerMessage{{Type: types.EvtTimerUpdate}, {Type: types.EvtTimerUpdate}}}

	assert.Equal(t, 0, count(t, h))
	<-out
	_, ok := <-out
	assert.False(t, ok, "dropped client outbox must be closed")
}

func TestHub_UnregisterClosesOutbox(t *testing.T) {
	h := newTestHub(t)
	out := make(chan types.ServerMessage, 1)
	h.Inbox() <- Register{ClientID: "c1", Outbox: out}
	h.Inbox() <- Unregister{ClientID: "c1"}
	h.Inbox() <- Unregister{ClientID: "c1"}

	assert.Equal(t, 0, count(t, h))
	_, ok := <-out
	assert.False(t, ok)
}

func TestHub_ShutdownClosesAll(t *testing.T) {
	h := newTestHub(t)
	out := make(chan types.ServerMessage, 1)
	h.Inbox() <- Register{ClientID: "c1", Outbox: out}
	h.Inbox() <- ShutdownHub{}

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("outbox not closed on shutdown")
	}
	assert.False(t, h.Send(Count{Reply: make(chan int, 1)}))
}
