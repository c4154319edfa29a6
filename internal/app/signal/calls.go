package signal

import "time"

// Call signaling is a stateless, identity-routed relay. The server holds no
// call session object: every operation re-resolves the target through the
// presence registry, so routing keeps working when a participant switches
// rooms mid-call. A target with no live endpoint means the signal is dropped
// silently; the client UI owns call timeouts.

// callRejectedReason is the fixed reason delivered with a declined call.
const callRejectedReason = "User declined the call"

// JoinVideoRoom moves ep into the video call room and announces the arrival
// to the participants already there. Tracked separately from conversation
// rooms: an endpoint keeps its chat view while in a call.
func (h *Hub) JoinVideoRoom(ep Endpoint, p JoinVideoRoomPayload) {
	if p.Room == "" {
		h.logger.Warn().Str("endpoint_id", ep.ID()).Msg("join_video_room without room ignored.")
		return
	}

	h.videoRooms.Join(ep, p.Room)

	h.logger.Info().
		Str("endpoint_id", ep.ID()).
		Str("user_id", p.UserID).
		Str("room", p.Room).
		Msg("Endpoint joined video room.")

	h.videoRooms.Broadcast(p.Room, Event{Type: EvtUserJoinedVideo, Payload: VideoJoinedPayload{
		UserID:     p.UserID,
		EndpointID: ep.ID(),
		Timestamp:  time.Now().UTC(),
	}}, ep.ID())
}

// LeaveVideoRoom removes ep from the video call room and notifies the
// remaining participants.
func (h *Hub) LeaveVideoRoom(ep Endpoint, p LeaveVideoRoomPayload) {
	if !h.videoRooms.Leave(ep, p.Room) {
		return
	}

	h.logger.Info().
		Str("endpoint_id", ep.ID()).
		Str("user_id", p.UserID).
		Str("room", p.Room).
		Msg("Endpoint left video room.")

	h.videoRooms.Broadcast(p.Room, Event{Type: EvtUserLeftVideo, Payload: VideoLeftPayload{
		UserID:  p.UserID,
		Message: p.UserID + " left the video room",
	}}, ep.ID())
}

// InitiateCall announces an incoming call to the callee's live endpoint.
// Nothing is sent and nothing fails when the callee is offline; the caller's
// UI times the attempt out on its own.
func (h *Hub) InitiateCall(ep Endpoint, p InitiateCallPayload) {
	target, ok := h.presence.Lookup(p.To)
	if !ok {
		h.logger.Debug().
			Str("from", p.From).
			Str("to", p.To).
			Str("call_type", p.CallType).
			Msg("Call target offline. Signal dropped.")
		return
	}

	h.logger.Info().
		Str("from", p.From).
		Str("to", p.To).
		Str("call_type", p.CallType).
		Msg("Call initiated.")

	target.Send(Event{Type: EvtIncomingCall, Payload: IncomingCallPayload{
		From:      p.From,
		CallType:  p.CallType,
		Timestamp: time.Now().UTC(),
	}})
}

// AcceptCall routes the callee's pick-up back to the caller.
func (h *Hub) AcceptCall(ep Endpoint, p CallAnswerPayload) {
	target, ok := h.presence.Lookup(p.To)
	if !ok {
		h.logger.Debug().Str("to", p.To).Msg("accept_call target offline. Signal dropped.")
		return
	}

	target.Send(Event{Type: EvtCallAccepted, Payload: CallAcceptedPayload{From: p.From}})
}

// RejectCall routes the callee's decline back to the caller.
func (h *Hub) RejectCall(ep Endpoint, p CallAnswerPayload) {
	target, ok := h.presence.Lookup(p.To)
	if !ok {
		h.logger.Debug().Str("to", p.To).Msg("reject_call target offline. Signal dropped.")
		return
	}

	target.Send(Event{Type: EvtCallRejected, Payload: CallRejectedPayload{
		From:   p.From,
		Reason: callRejectedReason,
	}})
}

// RelayOffer forwards an opaque SDP offer to the callee. The payload is never
// inspected or validated.
func (h *Hub) RelayOffer(ep Endpoint, p SignalPayload) {
	target, ok := h.presence.Lookup(p.To)
	if !ok {
		h.logger.Debug().Str("to", p.To).Msg("webrtc_offer target offline. Signal dropped.")
		return
	}

	target.Send(Event{Type: EvtReceiveOffer, Payload: OfferPayload{
		From:  p.From,
		Offer: p.Data,
	}})
}

// RelayAnswer forwards an opaque SDP answer back to the caller.
func (h *Hub) RelayAnswer(ep Endpoint, p SignalPayload) {
	target, ok := h.presence.Lookup(p.To)
	if !ok {
		h.logger.Debug().Str("to", p.To).Msg("webrtc_answer target offline. Signal dropped.")
		return
	}

	target.Send(Event{Type: EvtReceiveAnswer, Payload: AnswerPayload{
		From:   p.From,
		Answer: p.Data,
	}})
}

// RelayCandidate forwards an opaque ICE candidate to the other party.
func (h *Hub) RelayCandidate(ep Endpoint, p ICECandidatePayload) {
	target, ok := h.presence.Lookup(p.To)
	if !ok {
		h.logger.Debug().Str("to", p.To).Msg("ice_candidate target offline. Signal dropped.")
		return
	}

	target.Send(Event{Type: EvtReceiveICECandidate, Payload: CandidatePayload{
		From:      p.From,
		Candidate: p.Candidate,
	}})
}

// EndCall notifies the other party that the call is over. The initiator needs
// no reply.
func (h *Hub) EndCall(ep Endpoint, p EndCallPayload) {
	target, ok := h.presence.Lookup(p.To)
	if !ok {
		h.logger.Debug().Str("to", p.To).Msg("end_call target offline. Signal dropped.")
		return
	}

	h.logger.Info().Str("to", p.To).Msg("Call ended.")

	target.Send(Event{Type: EvtCallEnded, Payload: CallEndedPayload{
		Timestamp: time.Now().UTC(),
	}})
}
