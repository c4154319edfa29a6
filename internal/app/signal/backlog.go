package signal

import "context"

const (
	// registerReplayLimit bounds the backlog replayed when a user comes
	// online, across all peers.
	registerReplayLimit = 100

	// joinReplayLimit bounds the backlog replayed when a user opens one
	// specific conversation.
	joinReplayLimit = 50
)

// fallbackSenderName stands in when the directory has no row for a sender.
const fallbackSenderName = "Unknown"

// replayAll re-emits unseen messages from every peer to a freshly registered
// endpoint, oldest first. Messages stay unseen: opening the app in the
// background must not count as reading a conversation.
func (h *Hub) replayAll(ctx context.Context, ep Endpoint, userID string) {
	msgs, err := h.messages.QueryUnseen(ctx, userID, "", registerReplayLimit)
	if err != nil {
		h.logger.Error().Err(err).
			Str("user_id", userID).
			Msg("Failed to load unread backlog on register.")
		return
	}

	for _, m := range msgs {
		ep.Send(Event{Type: EvtReceiveMessage, Payload: replayedMessage(m, userID, "")})
	}

	if len(msgs) > 0 {
		h.logger.Info().
			Str("user_id", userID).
			Int("count", len(msgs)).
			Msg("Replayed unread backlog on register.")
	}
}

// replayPeer re-emits unseen messages from the room's peer to the endpoint
// that just joined the conversation, oldest first, then marks them seen.
// Joining the room is the read receipt.
func (h *Hub) replayPeer(ctx context.Context, ep Endpoint, userID, roomID string) {
	peerID, ok := PeerFromRoomID(roomID, userID)
	if !ok {
		h.logger.Warn().
			Str("user_id", userID).
			Str("room", roomID).
			Msg("Room id does not derive a conversation peer. Replay skipped.")
		return
	}

	msgs, err := h.messages.QueryUnseen(ctx, userID, peerID, joinReplayLimit)
	if err != nil {
		h.logger.Error().Err(err).
			Str("user_id", userID).
			Str("peer_id", peerID).
			Msg("Failed to load unread backlog on room join.")
		return
	}

	for _, m := range msgs {
		ep.Send(Event{Type: EvtReceiveMessage, Payload: replayedMessage(m, userID, roomID)})
	}

	if len(msgs) == 0 {
		return
	}

	if err := h.messages.MarkSeen(ctx, userID, peerID); err != nil {
		h.logger.Error().Err(err).
			Str("user_id", userID).
			Str("peer_id", peerID).
			Msg("Failed to mark replayed messages seen.")
		return
	}

	h.logger.Info().
		Str("user_id", userID).
		Str("peer_id", peerID).
		Int("count", len(msgs)).
		Msg("Replayed and marked unread backlog on room join.")
}

// replayedMessage reconstructs the outbound form of a stored message. The
// cached sender name may be missing when the sender reference was never
// resolved; the fallback keeps the payload shape intact either way.
func replayedMessage(m StoredMessage, receiverID, roomID string) ChatMessage {
	name := m.SenderName
	if name == "" {
		name = fallbackSenderName
	}

	if roomID == "" {
		roomID = DeriveRoomID(m.SenderID, receiverID)
	}

	return ChatMessage{
		SenderID:   m.SenderID,
		SenderName: name,
		Text:       m.Text,
		Timestamp:  m.CreatedAt,
		Room:       roomID,
	}
}
