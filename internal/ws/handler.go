package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/open-stage-timer/internal/session"
	"github.com/DoyleJ11/open-stage-timer/pkg/types"
)

const (
	writeTimeout   = 3 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 64 << 10
	outboxSize     = 32
)

// Handler upgrades a display connection, joins it to the session and pumps
// frames both ways until either side goes away. originPatterns are host
// patterns as understood by websocket.AcceptOptions.
func Handler(s *session.Session, logger *zap.Logger, originPatterns []string) http.HandlerFunc {
	log := logger.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		conn.SetReadLimit(maxMessageSize)

		out := make(chan types.ServerMessage, outboxSize)
		clientID := uuid.NewString()
		clog := log.With(zap.String("client_id", clientID))

		if !s.Send(session.Join{ClientID: clientID, Outbox: out}) {
			conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		}
		defer s.Send(session.Leave{ClientID: clientID})
		clog.Info("client connected", zap.String("remote", r.RemoteAddr))

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go writeLoop(ctx, cancel, conn, out, clog)
		go pingLoop(ctx, conn, clog)

		// Reader loop
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Info("client disconnected")
				default:
					clog.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				clog.Debug("discarding malformed frame", zap.Error(err))
				continue
			}

			cmd, ok := toSessionCommand(cm)
			if !ok {
				clog.Debug("discarding invalid command", zap.String("type", cm.Type))
				continue
			}

			if !s.Send(session.FromClient{ClientID: clientID, Cmd: cmd}) {
				return
			}
		}
	}
}

// writeLoop drains the outbox. A closed outbox means the hub dropped this
// client, so the connection is torn down.
func writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out <-chan types.ServerMessage, log *zap.Logger) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-out:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "closed by server")
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				log.Error("marshal update", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err = conn.Write(wctx, websocket.MessageText, payload)
			wcancel()
			if err != nil {
				log.Debug("write failed", zap.Error(err))
				return
			}
		}
	}
}

func pingLoop(ctx context.Context, conn *websocket.Conn, log *zap.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				log.Debug("ping failed", zap.Error(err))
				return
			}
		}
	}
}
