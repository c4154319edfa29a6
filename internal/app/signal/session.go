/*
Package signal contains the real-time signaling core.

This file defines the Session struct, the websocket-backed Endpoint. It manages
the connection lifecycle, the read and write pumps, heartbeats, and the
dispatch of inbound frames into the Hub.
*/
package signal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/skillswap/signaling/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the capacity of the per-session outbound queue.
	sendQueueSize = 256
)

// Session is one live websocket connection. It implements Endpoint; the Hub
// never touches the underlying connection directly.
type Session struct {
	// id is the ephemeral, connection-unique endpoint identifier.
	id string

	// hub receives every inbound command and the disconnect notification.
	hub *Hub

	// conn is the underlying WebSocket connection object.
	conn *websocket.Conn

	// boundUserID is the token subject when the connection was authenticated
	// at upgrade time; "" for unbound connections.
	boundUserID string

	// mu serializes queueing on send against its close. Send may be called
	// from other connections' read pumps at any time, including while this
	// session is tearing down.
	mu     sync.Mutex
	closed bool

	// send is a buffered channel queueing frames waiting to go to the client.
	send chan []byte

	// structured logger with session context.
	logger zerolog.Logger
}

// NewSession constructs a Session around an upgraded websocket connection.
// boundUserID may be empty when token enforcement is disabled.
func NewSession(hub *Hub, conn *websocket.Conn, boundUserID string) *Session {
	id := uuid.NewString()

	sessionLogger := logx.Logger().With().
		Str("endpoint_id", id).
		Logger()

	return &Session{
		id:          id,
		hub:         hub,
		conn:        conn,
		boundUserID: boundUserID,
		send:        make(chan []byte, sendQueueSize),
		logger:      sessionLogger,
	}
}

// ID returns the endpoint identifier.
func (s *Session) ID() string {
	return s.id
}

// BoundUserID returns the authenticated token subject, or "" when the
// connection was not token-bound.
func (s *Session) BoundUserID() string {
	return s.boundUserID
}

// Send queues an outbound event for the write pump. Fire-and-forget: when the
// queue is full or the session has shut down the event is dropped rather than
// blocking or panicking the relay.
func (s *Session) Send(ev Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error().Err(err).
			Str("event", string(ev.Type)).
			Msg("Error marshaling event for session.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Debug().
			Str("event", string(ev.Type)).
			Msg("Session already shut down, dropping event.")
		return
	}

	select {
	case s.send <- frame:
	default:
		s.logger.Warn().
			Str("event", string(ev.Type)).
			Int("queue_len", len(s.send)).
			Msg("Session send queue full, dropping event.")
	}
}

// shutdown closes the send channel exactly once. Racing Send calls observe
// the closed flag under the same lock and drop instead of panicking.
func (s *Session) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// Close requests session teardown. Used by the Hub during graceful shutdown.
// The close frame is written by the write pump, which owns the connection for
// writes; writing it here would race the pump.
func (s *Session) Close() error {
	s.shutdown()
	return nil
}

// ReadPump reads frames from the websocket connection, handles heartbeats,
// and dispatches each frame into the Hub. It performs cleanup when the
// connection closes.
func (s *Session) ReadPump() {
	defer s.cleanupOnDisconnect()

	s.conn.SetReadLimit(maxMessageSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		s.hub.Dispatch(context.Background(), s, frame)
	}
}

// cleanupOnDisconnect runs when the read pump terminates: the Hub tears down
// presence and room state, and the connection is closed.
func (s *Session) cleanupOnDisconnect() {
	s.logger.Info().Msg("Session cleanup starting.")

	s.hub.Disconnect(s)

	s.shutdown()

	if err := s.conn.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("Session connection close error")
	}
}

// WritePump writes frames from the send channel to the websocket connection
// and keeps the heartbeat alive.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := s.conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Session connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-s.send:
			if !s.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !s.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel.
// Returns true if the WritePump loop should continue.
func (s *Session) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			s.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		s.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic Ping to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate.
func (s *Session) writePingMessage() bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		s.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
