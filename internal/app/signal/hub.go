/*
Package signal contains the real-time signaling core.

This file defines the Hub, the per-process coordinator that owns the presence
registry, the room membership tracker, and the set of live endpoints, and
dispatches every inbound socket command to its handler. All collaborator state
(message store, notification store, user directory) is constructor-injected so
the core stays testable and carries no ambient globals.
*/
package signal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillswap/signaling/internal/pkg/logx"
)

// Hub coordinates all signaling state for one server process. Presence and
// room state live in memory with process lifetime; there is no cross-process
// backplane, so a restart wipes them and clients re-register on reconnect.
type Hub struct {
	presence *Presence
	rooms    *Rooms

	// videoRooms tracks video call membership separately so that joining a
	// call never evicts the endpoint from its conversation room.
	videoRooms *Rooms

	messages  MessageStore
	notifs    NotificationStore
	directory UserDirectory

	// mu protects endpoints, the set of every live connection whether or not
	// it has registered an identity yet.
	mu        sync.RWMutex
	endpoints map[string]Endpoint

	logger zerolog.Logger
}

// NewHub constructs the signaling hub with its persistence collaborators.
func NewHub(messages MessageStore, notifs NotificationStore, directory UserDirectory) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		presence:   NewPresence(),
		rooms:      NewRooms(),
		videoRooms: NewRooms(),
		messages:   messages,
		notifs:     notifs,
		directory:  directory,
		endpoints:  make(map[string]Endpoint),
		logger:     hubLogger,
	}
}

// Attach records a freshly connected endpoint so that global broadcasts
// (user_online, user_offline) reach it even before it registers.
func (h *Hub) Attach(ep Endpoint) {
	h.mu.Lock()
	h.endpoints[ep.ID()] = ep
	h.mu.Unlock()

	h.logger.Debug().Str("endpoint_id", ep.ID()).Msg("Endpoint attached.")
}

// Disconnect tears down all in-memory state owned by ep. A user_offline event
// is broadcast only when this endpoint still owned a presence mapping, so a
// stale tab disconnecting after a re-register stays silent.
func (h *Hub) Disconnect(ep Endpoint) {
	h.mu.Lock()
	delete(h.endpoints, ep.ID())
	h.mu.Unlock()

	if roomID, ok := h.rooms.RemoveEndpoint(ep); ok {
		h.logger.Debug().
			Str("endpoint_id", ep.ID()).
			Str("room", roomID).
			Msg("Endpoint removed from room on disconnect.")
	}

	// Video membership vanishes silently; call peers learn about the loss
	// through the call signaling path, not a room notice.
	h.videoRooms.RemoveEndpoint(ep)

	userID, userName, ok := h.presence.Remove(ep)
	if !ok {
		return
	}

	h.logger.Info().
		Str("endpoint_id", ep.ID()).
		Str("user_id", userID).
		Msg("User went offline.")

	h.broadcastAll(Event{Type: EvtUserOffline, Payload: PresencePayload{
		UserID:   userID,
		UserName: userName,
	}})
}

// Dispatch routes one inbound wire frame to its command handler. Malformed
// frames and unknown commands are logged and ignored; a bad event never tears
// down the connection.
func (h *Hub) Dispatch(ctx context.Context, ep Endpoint, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Warn().Err(err).
			Str("endpoint_id", ep.ID()).
			Msg("Endpoint sent invalid JSON frame.")
		return
	}

	switch env.Type {
	case CmdRegisterUser:
		var p RegisterPayload
		if h.decode(env, &p, ep) {
			h.Register(ctx, ep, p)
		}

	case CmdJoinRoom:
		var p JoinRoomPayload
		if h.decode(env, &p, ep) {
			h.JoinRoom(ctx, ep, p)
		}

	case CmdLeaveRoom:
		var p LeaveRoomPayload
		if h.decode(env, &p, ep) {
			h.LeaveRoom(ep, p)
		}

	case CmdSendMessage:
		var p SendMessagePayload
		if h.decode(env, &p, ep) {
			h.SendMessage(ctx, ep, p)
		}

	case CmdTyping:
		var p TypingPayload
		if h.decode(env, &p, ep) {
			h.Typing(ep, p)
		}

	case CmdStopTyping:
		var p StopTypingPayload
		if h.decode(env, &p, ep) {
			h.StopTyping(ep, p)
		}

	case CmdJoinVideoRoom:
		var p JoinVideoRoomPayload
		if h.decode(env, &p, ep) {
			h.JoinVideoRoom(ep, p)
		}

	case CmdLeaveVideoRoom:
		var p LeaveVideoRoomPayload
		if h.decode(env, &p, ep) {
			h.LeaveVideoRoom(ep, p)
		}

	case CmdInitiateCall:
		var p InitiateCallPayload
		if h.decode(env, &p, ep) {
			h.InitiateCall(ep, p)
		}

	case CmdAcceptCall:
		var p CallAnswerPayload
		if h.decode(env, &p, ep) {
			h.AcceptCall(ep, p)
		}

	case CmdRejectCall:
		var p CallAnswerPayload
		if h.decode(env, &p, ep) {
			h.RejectCall(ep, p)
		}

	case CmdOffer:
		var p SignalPayload
		if h.decode(env, &p, ep) {
			h.RelayOffer(ep, p)
		}

	case CmdAnswer:
		var p SignalPayload
		if h.decode(env, &p, ep) {
			h.RelayAnswer(ep, p)
		}

	case CmdICECandidate:
		var p ICECandidatePayload
		if h.decode(env, &p, ep) {
			h.RelayCandidate(ep, p)
		}

	case CmdEndCall:
		var p EndCallPayload
		if h.decode(env, &p, ep) {
			h.EndCall(ep, p)
		}

	default:
		h.logger.Warn().
			Str("endpoint_id", ep.ID()).
			Str("cmd", string(env.Type)).
			Msg("Endpoint sent unsupported command.")
	}
}

// decode unmarshals the envelope payload into dst, logging and dropping the
// frame on failure.
func (h *Hub) decode(env Envelope, dst any, ep Endpoint) bool {
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		h.logger.Warn().Err(err).
			Str("endpoint_id", ep.ID()).
			Str("cmd", string(env.Type)).
			Msg("Endpoint sent invalid payload.")
		return false
	}
	return true
}

// Register binds the claimed identity to ep, replays the unread backlog to
// it, and announces the user online to every connection. Re-registration is
// an idempotent overwrite; the most recent endpoint wins all future routing.
func (h *Hub) Register(ctx context.Context, ep Endpoint, p RegisterPayload) {
	if p.UserID == "" {
		h.logger.Warn().Str("endpoint_id", ep.ID()).Msg("register_user without userId ignored.")
		return
	}

	if bound, ok := ep.(BoundEndpoint); ok {
		if sub := bound.BoundUserID(); sub != "" && sub != p.UserID {
			h.logger.Warn().
				Str("endpoint_id", ep.ID()).
				Str("claimed_user_id", p.UserID).
				Str("token_user_id", sub).
				Msg("register_user identity does not match connection token. Ignored.")
			return
		}
	}

	h.presence.Register(p.UserID, p.UserName, ep)

	h.logger.Info().
		Str("endpoint_id", ep.ID()).
		Str("user_id", p.UserID).
		Str("user_name", p.UserName).
		Msg("User registered.")

	// Deliver messages that arrived while the user was offline. This path
	// intentionally leaves the seen flag untouched; only opening the room
	// marks messages seen.
	h.replayAll(ctx, ep, p.UserID)

	h.broadcastAll(Event{Type: EvtUserOnline, Payload: PresencePayload{
		UserID:   p.UserID,
		UserName: p.UserName,
	}})
}

// JoinRoom moves ep into the conversation room, replays the unread backlog
// from the room's peer (marking it seen), and notifies the other members.
func (h *Hub) JoinRoom(ctx context.Context, ep Endpoint, p JoinRoomPayload) {
	if p.Room == "" {
		h.logger.Warn().Str("endpoint_id", ep.ID()).Msg("join_room without room ignored.")
		return
	}

	left, moved := h.rooms.Join(ep, p.Room)
	if moved {
		h.logger.Debug().
			Str("endpoint_id", ep.ID()).
			Str("previous_room", left).
			Str("room", p.Room).
			Msg("Endpoint switched rooms.")
	}

	h.logger.Info().
		Str("endpoint_id", ep.ID()).
		Str("user_id", p.UserID).
		Str("room", p.Room).
		Msg("Endpoint joined room.")

	h.replayPeer(ctx, ep, p.UserID, p.Room)

	h.rooms.Broadcast(p.Room, Event{Type: EvtUserJoined, Payload: RoomEventPayload{
		UserID:    p.UserID,
		UserName:  p.UserName,
		Message:   p.UserName + " joined the chat",
		Timestamp: time.Now().UTC(),
	}}, ep.ID())
}

// LeaveRoom removes ep from the room and notifies the remaining members.
func (h *Hub) LeaveRoom(ep Endpoint, p LeaveRoomPayload) {
	if !h.rooms.Leave(ep, p.Room) {
		return
	}

	h.logger.Info().
		Str("endpoint_id", ep.ID()).
		Str("room", p.Room).
		Msg("Endpoint left room.")

	h.rooms.Broadcast(p.Room, Event{Type: EvtUserLeft, Payload: RoomEventPayload{
		UserName:  p.UserName,
		Message:   p.UserName + " left the chat",
		Timestamp: time.Now().UTC(),
	}}, ep.ID())
}

// broadcastAll fans ev out to every live connection, registered or not.
func (h *Hub) broadcastAll(ev Event) {
	h.mu.RLock()
	targets := make([]Endpoint, 0, len(h.endpoints))
	for _, ep := range h.endpoints {
		targets = append(targets, ep)
	}
	h.mu.RUnlock()

	for _, ep := range targets {
		ep.Send(ev)
	}
}

// Shutdown closes every live connection. Used during graceful server stop.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	targets := make([]Endpoint, 0, len(h.endpoints))
	for _, ep := range h.endpoints {
		targets = append(targets, ep)
	}
	h.endpoints = make(map[string]Endpoint)
	h.mu.Unlock()

	for _, ep := range targets {
		if closer, ok := ep.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				h.logger.Warn().Err(err).
					Str("endpoint_id", ep.ID()).
					Msg("Endpoint close during shutdown failed.")
			}
		}
	}

	h.logger.Info().Msg("Hub shutdown complete.")
}
