package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/open-stage-timer/pkg/types"
)

// HubMsg is anything the hub loop accepts. Messages are handled strictly in
// arrival order, which is what keeps a join replay ahead of later broadcasts.
type HubMsg interface{ isHubMsg() }

// Register adds a client and sends it Replay before anything else.
type Register struct {
	ClientID string
	Outbox   chan types.ServerMessage
	Replay   []types.ServerMessage
}

type Unregister struct {
	ClientID string
}

// Publish fans Messages out to every registered client, in order.
type Publish struct {
	Messages []types.ServerMessage
}

type Count struct {
	Reply chan int
}

type ShutdownHub struct{}

func (Register) isHubMsg()    {}
func (Unregister) isHubMsg()  {}
func (Publish) isHubMsg()     {}
func (Count) isHubMsg()       {}
func (ShutdownHub) isHubMsg() {}

// Hub is the registry of connected displays. It only ever touches client
// outboxes, never timer or rundown state.
type Hub struct {
	inbox   chan HubMsg
	clients map[string]chan types.ServerMessage
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		clients: make(map[string]chan types.ServerMessage),
		log:     logger.Named("hub"),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Send delivers m to the loop, or reports false once the hub has stopped.
func (h *Hub) Send(m HubMsg) bool {
	if h.ctx.Err() != nil {
		return false
	}
	select {
	case h.inbox <- m:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Register:
				h.register(msg)

			case Unregister:
				if ch, ok := h.clients[msg.ClientID]; ok {
					close(ch)
					delete(h.clients, msg.ClientID)
					h.log.Debug("client left", zap.String("client_id", msg.ClientID), zap.Int("clients", len(h.clients)))
				}

			case Publish:
				h.broadcast(msg.Messages)

			case Count:
				msg.Reply <- len(h.clients)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) register(msg Register) {
	if old, ok := h.clients[msg.ClientID]; ok {
		close(old)
		delete(h.clients, msg.ClientID)
	}
	for _, m := range msg.Replay {
		select {
		case msg.Outbox <- m:
		default:
			h.log.Warn("client outbox too small for replay", zap.String("client_id", msg.ClientID))
			close(msg.Outbox)
			return
		}
	}
	h.clients[msg.ClientID] = msg.Outbox
	h.log.Debug("client joined", zap.String("client_id", msg.ClientID), zap.Int("clients", len(h.clients)))
}

func (h *Hub) broadcast(msgs []types.ServerMessage) {
	for id, ch := range h.clients {
	send:
		for _, m := range msgs {
			select {
			case ch <- m:
			default:
				// Client is slow/full - drop them.
				h.log.Warn("dropping slow client", zap.String("client_id", id))
				close(ch)
				delete(h.clients, id)
				break send
			}
		}
	}
}

func (h *Hub) shutdown() {
	h.cancel()
	for id, ch := range h.clients {
		close(ch) // Tell client no more updates
		delete(h.clients, id)
	}
}
