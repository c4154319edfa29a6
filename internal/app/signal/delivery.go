package signal

import (
	"context"
	"strings"
	"unicode/utf8"
)

// notificationBodyLimit caps the message excerpt stored in a notification body.
const notificationBodyLimit = 100

// truncateBody cuts s to at most limit bytes without splitting a rune.
func truncateBody(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// SendMessage runs the delivery pipeline for one chat message:
//
//  1. drop empty/whitespace-only text silently;
//  2. persist the message; on failure the whole delivery is abandoned, a
//     message is never relayed without being durably recorded first;
//  3. deliver directly to the receiver's live endpoint, if any;
//  4. broadcast to the room so the sender's own open views stay in sync;
//  5. fall back to a persisted notification when the receiver is offline or
//     not viewing this conversation.
func (h *Hub) SendMessage(ctx context.Context, ep Endpoint, p SendMessagePayload) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return
	}

	stored, err := h.messages.Persist(ctx, p.SenderID, p.ReceiverID, text)
	if err != nil {
		h.logger.Error().Err(err).
			Str("endpoint_id", ep.ID()).
			Str("sender_id", p.SenderID).
			Str("receiver_id", p.ReceiverID).
			Msg("Failed to persist message. Delivery abandoned.")
		return
	}

	ev := Event{Type: EvtReceiveMessage, Payload: ChatMessage{
		SenderID:   p.SenderID,
		SenderName: p.SenderName,
		Text:       text,
		Timestamp:  stored.CreatedAt,
		Room:       p.Room,
	}}

	receiver, online := h.presence.Lookup(p.ReceiverID)
	viewing := online && h.rooms.IsMember(p.Room, receiver.ID())

	// Direct delivery reaches the receiver even before they join the room.
	if online {
		receiver.Send(ev)
	}

	// Room broadcast covers the sender's own confirmation and any other
	// endpoint viewing the conversation. Deduplication is a client concern.
	h.rooms.Broadcast(p.Room, ev, "")

	if viewing {
		return
	}

	h.notifyMessage(ctx, p, text, receiver, online)
}

// notifyMessage persists a message notification and pushes it live when the
// receiver has some endpoint that is just not viewing this conversation.
// Failures here never undo the already completed message delivery.
func (h *Hub) notifyMessage(ctx context.Context, p SendMessagePayload, text string, receiver Endpoint, online bool) {
	body := truncateBody(text, notificationBodyLimit)

	stored, err := h.notifs.Create(ctx, NewNotification{
		RecipientID: p.ReceiverID,
		SenderID:    p.SenderID,
		Kind:        NotificationMessage,
		Title:       "New message from " + p.SenderName,
		Body:        body,
		Data:        NotificationData{ChatID: p.Room},
	})
	if err != nil {
		h.logger.Error().Err(err).
			Str("recipient_id", p.ReceiverID).
			Msg("Failed to create message notification.")
		return
	}

	if !online {
		// The notification waits in the store for the next login.
		return
	}

	view := NotificationView{
		ID:          stored.ID,
		RecipientID: stored.RecipientID,
		SenderID:    stored.SenderID,
		Kind:        stored.Kind,
		Title:       stored.Title,
		Body:        stored.Body,
		Data:        stored.Data,
		Seen:        stored.Seen,
		CreatedAt:   stored.CreatedAt,
	}

	if info, err := h.directory.ResolveDisplayInfo(ctx, p.SenderID); err == nil {
		view.Sender = &info
	} else {
		h.logger.Warn().Err(err).
			Str("sender_id", p.SenderID).
			Msg("Failed to resolve sender for notification. Delivering without sender info.")
	}

	receiver.Send(Event{Type: EvtNewNotification, Payload: NotificationEvent{
		RecipientID:  p.ReceiverID,
		Notification: view,
	}})
}
