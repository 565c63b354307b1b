package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/alerts/internal/config"
	"github.com/vango-dev/alerts/internal/errors"
	"github.com/vango-dev/alerts/pkg/protocol"
)

// writeWait bounds every WebSocket write.
const writeWait = 10 * time.Second

// handleWebSocket streams patches as JSON frames. The client passes the
// last document version it applied as ?since=. Frames it missed are
// replayed from the hub's history; a client that is further behind than
// the history, or ahead of the document, gets a fatal resync frame.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", errors.New("E302").Wrap(err).FormatPlain())
		return
	}
	defer conn.Close()

	since := s.doc.Version()
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			_ = s.writeFrame(conn, protocol.NewErrorFrame(errors.New("E306")), config.TransportWebSocket)
			return
		}
	}

	sub, replay, ok := s.hub.SubscribeFrom(config.TransportWebSocket, since)
	if !ok {
		s.logger.Debug("stream behind patch history", "since", since, "oldest", s.hub.history.MinSeq())
		_ = s.writeFrame(conn, protocol.NewErrorFrame(errors.New("E306")), config.TransportWebSocket)
		return
	}
	defer sub.Close()
	logger := s.logger.With("stream", sub.ID, "transport", sub.Transport)

	// The version only grows, so a since beyond it was never served.
	if version := s.doc.Version(); since > version {
		logger.Debug("stream ahead of document", "since", since, "version", version)
		_ = s.writeFrame(conn, protocol.NewErrorFrame(errors.New("E306")), sub.Transport)
		return
	}

	last := since
	for _, frame := range replay {
		if err := s.writeRaw(conn, frame, sub.Transport); err != nil {
			logger.Debug("stream write failed", "error", err)
			return
		}
		last++
	}
	logger.Debug("stream opened", "since", since, "replayed", len(replay))

	closed := make(chan struct{})
	go s.readLoop(conn, closed)

	ping := time.NewTicker(s.config.PingInterval())
	defer ping.Stop()

	for {
		select {
		case u := <-sub.Updates():
			if u.Seq <= last {
				continue
			}
			if u.Frame == nil {
				// The client will see the gap and reload.
				continue
			}
			if err := s.writeRaw(conn, u.Frame, sub.Transport); err != nil {
				logger.Debug("stream write failed", "error", err)
				return
			}
			last = u.Seq

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-sub.Done():
			if sub.Dropped() {
				// Reconnecting with the last applied version replays the rest.
				_ = s.writeFrame(conn, protocol.NewRetryFrame(errors.New("E305")), sub.Transport)
			}
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return

		case <-closed:
			logger.Debug("stream closed by client")
			return
		}
	}
}

// readLoop discards client messages and keeps the read deadline fresh
// from pongs. It closes closed when the connection ends.
func (s *Server) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	pongWait := 2 * s.config.PingInterval()
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "error", err)
			}
			return
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, f protocol.Frame, transport string) error {
	data, err := protocol.Encode(f)
	if err != nil {
		return err
	}
	return s.writeRaw(conn, data, transport)
}

// writeRaw writes an already encoded frame.
func (s *Server) writeRaw(conn *websocket.Conn, data []byte, transport string) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	s.metrics.FrameSent(transport)
	return nil
}
