package signal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/signaling/internal/app/signal"
)

func TestDispatch_InvalidJSONIsIgnored(t *testing.T) {
	hub, messages, _, _ := newTestHub()
	ep := newFakeEndpoint("e1")
	hub.Attach(ep)

	hub.Dispatch(context.Background(), ep, []byte("{not json"))
	hub.Dispatch(context.Background(), ep, []byte(`{"type":"register_user","payload":"not-an-object"}`))
	hub.Dispatch(context.Background(), ep, []byte(`{"type":"no_such_command","payload":{}}`))

	assert.Empty(t, ep.Events())
	messages.AssertNotCalled(t, "QueryUnseen", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_RegisterUserFrame(t *testing.T) {
	hub, messages, _, _ := newTestHub()
	ep := newFakeEndpoint("e1")
	watcher := newFakeEndpoint("e2")
	hub.Attach(ep)
	hub.Attach(watcher)

	expectEmptyBacklog(messages, "user-a")
	hub.Dispatch(context.Background(), ep,
		[]byte(`{"type":"register_user","payload":{"userId":"user-a","userName":"Alice"}}`))

	// Every live connection hears the presence change, the new one included.
	online := watcher.EventsOfType(signal.EvtUserOnline)
	require.Len(t, online, 1)
	payload := online[0].Payload.(signal.PresencePayload)
	assert.Equal(t, "user-a", payload.UserID)
	assert.Equal(t, "Alice", payload.UserName)
	assert.Len(t, ep.EventsOfType(signal.EvtUserOnline), 1)
}

func TestRegister_WithoutUserIDIsIgnored(t *testing.T) {
	hub, messages, _, _ := newTestHub()
	ep := newFakeEndpoint("e1")
	hub.Attach(ep)

	hub.Register(context.Background(), ep, signal.RegisterPayload{UserID: "", UserName: "Ghost"})

	assert.Empty(t, ep.EventsOfType(signal.EvtUserOnline))
	messages.AssertNotCalled(t, "QueryUnseen", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_TokenBoundIdentityMismatchIsIgnored(t *testing.T) {
	hub, messages, _, _ := newTestHub()
	ep := newFakeBoundEndpoint("e1", "user-a")
	hub.Attach(ep)

	hub.Register(context.Background(), ep, signal.RegisterPayload{UserID: "user-b", UserName: "Mallory"})

	assert.Empty(t, ep.EventsOfType(signal.EvtUserOnline))
	messages.AssertNotCalled(t, "QueryUnseen", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// The matching identity registers fine.
	expectEmptyBacklog(messages, "user-a")
	hub.Register(context.Background(), ep, signal.RegisterPayload{UserID: "user-a", UserName: "Alice"})
	assert.Len(t, ep.EventsOfType(signal.EvtUserOnline), 1)
}

func TestDisconnect_BroadcastsOfflineOnlyForLiveRegistration(t *testing.T) {
	hub, messages, _, _ := newTestHub()

	e1 := newFakeEndpoint("e1")
	e2 := newFakeEndpoint("e2")
	watcher := newFakeEndpoint("e3")
	hub.Attach(e1)
	hub.Attach(e2)
	hub.Attach(watcher)

	expectEmptyBacklog(messages, "user-a")
	hub.Register(context.Background(), e1, signal.RegisterPayload{UserID: "user-a", UserName: "Alice"})
	hub.Register(context.Background(), e2, signal.RegisterPayload{UserID: "user-a", UserName: "Alice"})

	// The stale tab disconnecting must not announce the user offline.
	hub.Disconnect(e1)
	assert.Empty(t, watcher.EventsOfType(signal.EvtUserOffline))

	hub.Disconnect(e2)
	offline := watcher.EventsOfType(signal.EvtUserOffline)
	require.Len(t, offline, 1)
	assert.Equal(t, "user-a", offline[0].Payload.(signal.PresencePayload).UserID)
}

func TestDisconnect_UnregisteredEndpointIsSilent(t *testing.T) {
	hub, _, _, _ := newTestHub()

	ep := newFakeEndpoint("e1")
	watcher := newFakeEndpoint("e2")
	hub.Attach(ep)
	hub.Attach(watcher)

	hub.Disconnect(ep)

	assert.Empty(t, watcher.EventsOfType(signal.EvtUserOffline))
}

func TestJoinRoom_NotifiesOtherMembersOnly(t *testing.T) {
	hub, messages, _, _ := newTestHub()
	room := signal.DeriveRoomID("user-a", "user-b")

	first := newFakeEndpoint("e1")
	second := newFakeEndpoint("e2")
	hub.Attach(first)
	hub.Attach(second)

	expectEmptyPeerBacklog(messages, "user-a", "user-b")
	hub.JoinRoom(context.Background(), first, signal.JoinRoomPayload{UserID: "user-a", UserName: "Alice", Room: room})
	assert.Empty(t, first.EventsOfType(signal.EvtUserJoined), "nobody else was in the room yet")

	expectEmptyPeerBacklog(messages, "user-b", "user-a")
	hub.JoinRoom(context.Background(), second, signal.JoinRoomPayload{UserID: "user-b", UserName: "Bob", Room: room})

	joined := first.EventsOfType(signal.EvtUserJoined)
	require.Len(t, joined, 1)
	payload := joined[0].Payload.(signal.RoomEventPayload)
	assert.Equal(t, "user-b", payload.UserID)
	assert.Equal(t, "Bob joined the chat", payload.Message)
	assert.Empty(t, second.EventsOfType(signal.EvtUserJoined), "joiner does not hear their own arrival")
}

func TestLeaveRoom_NotifiesRemainingMembers(t *testing.T) {
	hub, messages, _, _ := newTestHub()
	room := signal.DeriveRoomID("user-a", "user-b")

	first := newFakeEndpoint("e1")
	second := newFakeEndpoint("e2")
	hub.Attach(first)
	hub.Attach(second)

	expectEmptyPeerBacklog(messages, "user-a", "user-b")
	hub.JoinRoom(context.Background(), first, signal.JoinRoomPayload{UserID: "user-a", UserName: "Alice", Room: room})
	expectEmptyPeerBacklog(messages, "user-b", "user-a")
	hub.JoinRoom(context.Background(), second, signal.JoinRoomPayload{UserID: "user-b", UserName: "Bob", Room: room})

	hub.LeaveRoom(second, signal.LeaveRoomPayload{Room: room, UserName: "Bob"})

	left := first.EventsOfType(signal.EvtUserLeft)
	require.Len(t, left, 1)
	assert.Equal(t, "Bob left the chat", left[0].Payload.(signal.RoomEventPayload).Message)

	// Leaving a room you are not in stays silent.
	hub.LeaveRoom(second, signal.LeaveRoomPayload{Room: room, UserName: "Bob"})
	assert.Len(t, first.EventsOfType(signal.EvtUserLeft), 1)
}

func TestJoinRoom_SwitchingRoomsLeavesPrevious(t *testing.T) {
	hub, messages, _, _ := newTestHub()
	roomAB := signal.DeriveRoomID("user-a", "user-b")
	roomAC := signal.DeriveRoomID("user-a", "user-c")

	ep := newFakeEndpoint("e1")
	peer := newFakeEndpoint("e2")
	hub.Attach(ep)
	hub.Attach(peer)

	expectEmptyPeerBacklog(messages, "user-a", "user-b")
	hub.JoinRoom(context.Background(), ep, signal.JoinRoomPayload{UserID: "user-a", UserName: "Alice", Room: roomAB})
	expectEmptyPeerBacklog(messages, "user-b", "user-a")
	hub.JoinRoom(context.Background(), peer, signal.JoinRoomPayload{UserID: "user-b", UserName: "Bob", Room: roomAB})

	expectEmptyPeerBacklog(messages, "user-a", "user-c")
	hub.JoinRoom(context.Background(), ep, signal.JoinRoomPayload{UserID: "user-a", UserName: "Alice", Room: roomAC})

	// Typing in the old room no longer reaches the switched endpoint.
	hub.Typing(peer, signal.TypingPayload{Room: roomAB, UserName: "Bob"})
	assert.Empty(t, ep.EventsOfType(signal.EvtTyping))
}
