/*
Package signal contains the real-time signaling core: presence tracking, room
membership, message delivery, unread backlog replay, call signaling relay, and
typing indicators.

This file defines the wire protocol: the envelope exchanged over the socket and
the typed payloads of every inbound command and outbound event.
*/
package signal

import (
	"encoding/json"
	"time"

	"github.com/skillswap/signaling/internal/app/user"
)

// EventType names a command or event on the socket wire protocol.
type EventType string

// Inbound commands consumed by the core.
const (
	CmdRegisterUser   EventType = "register_user"
	CmdJoinRoom       EventType = "join_room"
	CmdLeaveRoom      EventType = "leave_room"
	CmdSendMessage    EventType = "send_message"
	CmdTyping         EventType = "user_typing"
	CmdStopTyping     EventType = "user_stop_typing"
	CmdJoinVideoRoom  EventType = "join_video_room"
	CmdLeaveVideoRoom EventType = "leave_video_room"
	CmdInitiateCall   EventType = "initiate_call"
	CmdAcceptCall     EventType = "accept_call"
	CmdRejectCall     EventType = "reject_call"
	CmdOffer          EventType = "webrtc_offer"
	CmdAnswer         EventType = "webrtc_answer"
	CmdICECandidate   EventType = "ice_candidate"
	CmdEndCall        EventType = "end_call"
)

// Outbound events produced by the core.
const (
	EvtUserOnline          EventType = "user_online"
	EvtUserOffline         EventType = "user_offline"
	EvtReceiveMessage      EventType = "receive_message"
	EvtNewNotification     EventType = "new_notification"
	EvtUserJoined          EventType = "user_joined"
	EvtUserLeft            EventType = "user_left"
	EvtTyping              EventType = "user_typing"
	EvtStopTyping          EventType = "user_stop_typing"
	EvtUserJoinedVideo     EventType = "user_joined_video"
	EvtUserLeftVideo       EventType = "user_left_video"
	EvtIncomingCall        EventType = "incoming_call"
	EvtCallAccepted        EventType = "call_accepted"
	EvtCallRejected        EventType = "call_rejected"
	EvtCallEnded           EventType = "call_ended"
	EvtReceiveOffer        EventType = "receive_offer"
	EvtReceiveAnswer       EventType = "receive_answer"
	EvtReceiveICECandidate EventType = "receive_ice_candidate"
)

// Envelope is the inbound wire frame. The payload stays raw until the command
// type selects the concrete payload struct.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is an outbound wire frame. The payload is a concrete struct marshaled
// at emission time.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// RegisterPayload binds a user identity to the current connection.
type RegisterPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// JoinRoomPayload moves the connection into a conversation room.
type JoinRoomPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Room     string `json:"room"`
}

// LeaveRoomPayload removes the connection from a conversation room.
type LeaveRoomPayload struct {
	Room     string `json:"room"`
	UserName string `json:"userName"`
}

// SendMessagePayload carries a chat message for persistence and relay.
type SendMessagePayload struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Room       string `json:"room"`
	ReceiverID string `json:"receiverId"`
}

// TypingPayload starts a typing indicator in a room.
type TypingPayload struct {
	Room     string `json:"room"`
	UserName string `json:"userName"`
}

// StopTypingPayload stops a typing indicator in a room.
type StopTypingPayload struct {
	Room     string `json:"room"`
	UserName string `json:"userName"`
}

// JoinVideoRoomPayload moves the connection into a video call room.
type JoinVideoRoomPayload struct {
	UserID string `json:"userId"`
	Room   string `json:"room"`
}

// LeaveVideoRoomPayload removes the connection from a video call room.
type LeaveVideoRoomPayload struct {
	Room   string `json:"room"`
	UserID string `json:"userId"`
}

// InitiateCallPayload starts a call attempt toward another identity.
type InitiateCallPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	CallType string `json:"callType"`
}

// CallAnswerPayload carries an accept or reject decision back to the caller.
type CallAnswerPayload struct {
	To   string `json:"to"`
	From string `json:"from"`
}

// SignalPayload relays an opaque SDP offer or answer between identities.
// The Data field is never inspected.
type SignalPayload struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// ICECandidatePayload relays an opaque ICE candidate between identities.
type ICECandidatePayload struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Candidate json.RawMessage `json:"candidate"`
}

// EndCallPayload tells the other party that the call has ended.
type EndCallPayload struct {
	To string `json:"to"`
}

// PresencePayload announces that a user came online or went offline.
type PresencePayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// ChatMessage is the outbound form of a delivered chat message.
type ChatMessage struct {
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Room       string    `json:"room"`
}

// RoomEventPayload announces a peer joining or leaving the room view.
type RoomEventPayload struct {
	UserID    string    `json:"userId,omitempty"`
	UserName  string    `json:"userName"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// TypingEvent is the outbound typing indicator.
type TypingEvent struct {
	UserName string `json:"userName,omitempty"`
}

// VideoJoinedPayload announces a participant arriving in a video room.
type VideoJoinedPayload struct {
	UserID     string    `json:"userId"`
	EndpointID string    `json:"endpointId"`
	Timestamp  time.Time `json:"timestamp"`
}

// VideoLeftPayload announces a participant leaving a video room.
type VideoLeftPayload struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// IncomingCallPayload announces a call attempt to the callee.
type IncomingCallPayload struct {
	From      string    `json:"from"`
	CallType  string    `json:"callType"`
	Timestamp time.Time `json:"timestamp"`
}

// CallAcceptedPayload tells the caller the callee picked up.
type CallAcceptedPayload struct {
	From string `json:"from"`
}

// CallRejectedPayload tells the caller the callee declined.
type CallRejectedPayload struct {
	From   string `json:"from"`
	Reason string `json:"reason"`
}

// CallEndedPayload tells the remaining party the call is over.
type CallEndedPayload struct {
	Timestamp time.Time `json:"timestamp"`
}

// OfferPayload delivers a relayed SDP offer.
type OfferPayload struct {
	From  string          `json:"from"`
	Offer json.RawMessage `json:"offer"`
}

// AnswerPayload delivers a relayed SDP answer.
type AnswerPayload struct {
	From   string          `json:"from"`
	Answer json.RawMessage `json:"answer"`
}

// CandidatePayload delivers a relayed ICE candidate.
type CandidatePayload struct {
	From      string          `json:"from"`
	Candidate json.RawMessage `json:"candidate"`
}

// NotificationEvent delivers a freshly persisted notification to a live endpoint.
type NotificationEvent struct {
	RecipientID  string           `json:"recipientId"`
	Notification NotificationView `json:"notification"`
}

// NotificationView is the outbound form of a persisted notification, enriched
// with the sender's display information when the directory resolves it.
type NotificationView struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipientId"`
	SenderID    string           `json:"senderId"`
	Kind        NotificationKind `json:"type"`
	Title       string           `json:"title"`
	Body        string           `json:"message"`
	Data        NotificationData `json:"data"`
	Seen        bool             `json:"seen"`
	CreatedAt   time.Time        `json:"createdAt"`
	Sender      *user.Info       `json:"sender"`
}
