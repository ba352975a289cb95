package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/DoyleJ11/open-stage-timer/internal/hub"
	"github.com/DoyleJ11/open-stage-timer/pkg/types"
)

// TickInterval is the period of the broadcast clock.
const TickInterval = time.Second

var ErrStopped = errors.New("session stopped")

type Msg interface{ isSessionMsg() }

type FromClient struct {
	ClientID string
	Cmd      Command
}

func (FromClient) isSessionMsg() {}

// Join registers a display. The hub sends it the full snapshot before any
// update committed after the join.
type Join struct {
	ClientID string
	Outbox   chan types.ServerMessage
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type View struct {
	Version int
	State   State
}

type Options struct {
	Clock  clockwork.Clock
	Logger *zap.Logger
}

// Session owns the State. Ticks, joins and client commands all run on one
// goroutine, so each mutation and its broadcast finish before the next starts.
type Session struct {
	inbox   chan Msg
	state   State
	version int
	hub     *hub.Hub
	clock   clockwork.Clock
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewSession(parent context.Context, initial State, h *hub.Hub, opts Options) *Session {
	ctx, cancel := context.WithCancel(parent)
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{
		inbox:  make(chan Msg, 64),
		state:  initial,
		hub:    h,
		clock:  opts.Clock,
		log:    opts.Logger.Named("session"),
		ctx:    ctx,
		cancel: cancel,
	}

	// Create the ticker before the loop starts so a fake clock sees it as soon
	// as NewSession returns.
	ticker := s.clock.NewTicker(TickInterval)
	go s.loop(ticker)
	return s
}

func (s *Session) loop(ticker clockwork.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case <-ticker.Chan():
			before := s.state.Rundown.ActiveIndex
			next, updates := Tick(s.state, s.clock.Now())
			if len(updates) > 1 {
				s.log.Info("segment finished",
					zap.Intp("from_index", before),
					zap.Intp("active_index", next.Rundown.ActiveIndex),
					zap.Bool("auto_advance", next.Rundown.AutoAdvance))
			}
			s.commit(next, updates)

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				s.hub.Send(hub.Register{ClientID: msg.ClientID, Outbox: msg.Outbox, Replay: s.state.Snapshot()})

			case Leave:
				s.hub.Send(hub.Unregister{ClientID: msg.ClientID})

			case FromClient:
				next, updates := Apply(s.state, msg.Cmd)
				if len(updates) == 0 {
					s.log.Debug("command had no effect",
						zap.String("client_id", msg.ClientID),
						zap.String("command", fmt.Sprintf("%T", msg.Cmd)))
					break
				}
				s.commit(next, updates)

			case GetState:
				msg.Reply <- View{Version: s.version, State: s.state}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) commit(next State, updates []types.ServerMessage) {
	if len(updates) == 0 {
		return
	}
	s.state = next
	s.version++
	s.hub.Send(hub.Publish{Messages: updates})
}

func (s *Session) shutdown() {
	s.cancel()
	s.hub.Send(hub.ShutdownHub{})
	s.log.Info("session stopped", zap.Int("version", s.version))
}

// Inbox exposes the inbox so tests or the WS layer can send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Send delivers m to the loop, or reports false once the session has stopped.
func (s *Session) Send(m Msg) bool {
	if s.ctx.Err() != nil {
		return false
	}
	select {
	case s.inbox <- m:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// Current returns the latest committed state.
func (s *Session) Current(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if !s.Send(GetState{Reply: reply}) {
		return View{}, ErrStopped
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.ctx.Done():
		return View{}, ErrStopped
	}
}
