package signal

// Typing indicators are pure best-effort fan-out: no persistence, no delivery
// guarantee, no replay.

// Typing broadcasts a typing-start indicator to the other room members.
func (h *Hub) Typing(ep Endpoint, p TypingPayload) {
	h.rooms.Broadcast(p.Room, Event{Type: EvtTyping, Payload: TypingEvent{
		UserName: p.UserName,
	}}, ep.ID())
}

// StopTyping broadcasts a typing-stop indicator to the other room members.
func (h *Hub) StopTyping(ep Endpoint, p StopTypingPayload) {
	h.rooms.Broadcast(p.Room, Event{Type: EvtStopTyping, Payload: TypingEvent{
		UserName: p.UserName,
	}}, ep.ID())
}
