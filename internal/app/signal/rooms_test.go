package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/signaling/internal/app/signal"
)

func TestDeriveRoomID_OrderIndependent(t *testing.T) {
	ab := signal.DeriveRoomID("user-a", "user-b")
	ba := signal.DeriveRoomID("user-b", "user-a")

	assert.Equal(t, ab, ba)
	assert.Equal(t, "user-a_user-b", ab)
}

func TestPeerFromRoomID(t *testing.T) {
	roomID := signal.DeriveRoomID("user-a", "user-b")

	peer, ok := signal.PeerFromRoomID(roomID, "user-a")
	require.True(t, ok)
	assert.Equal(t, "user-b", peer)

	peer, ok = signal.PeerFromRoomID(roomID, "user-b")
	require.True(t, ok)
	assert.Equal(t, "user-a", peer)

	_, ok = signal.PeerFromRoomID(roomID, "user-c")
	assert.False(t, ok, "non-participant must not derive a peer")

	_, ok = signal.PeerFromRoomID("not-a-conversation", "user-a")
	assert.False(t, ok)
}

func TestRooms_JoinIsExclusive(t *testing.T) {
	r := signal.NewRooms()
	e1 := newFakeEndpoint("e1")

	_, moved := r.Join(e1, "room-a")
	assert.False(t, moved)

	left, moved := r.Join(e1, "room-b")
	require.True(t, moved)
	assert.Equal(t, "room-a", left)

	assert.True(t, r.IsMember("room-b", "e1"))
	assert.False(t, r.IsMember("room-a", "e1"))
	assert.Empty(t, r.Members("room-a"))
	assert.Len(t, r.Members("room-b"), 1)
}

func TestRooms_RejoinSameRoomIsNoOp(t *testing.T) {
	r := signal.NewRooms()
	e1 := newFakeEndpoint("e1")

	r.Join(e1, "room-a")
	_, moved := r.Join(e1, "room-a")

	assert.False(t, moved)
	assert.True(t, r.IsMember("room-a", "e1"))
	assert.Len(t, r.Members("room-a"), 1)
}

func TestRooms_LeaveAndRemoveEndpoint(t *testing.T) {
	r := signal.NewRooms()
	e1 := newFakeEndpoint("e1")
	e2 := newFakeEndpoint("e2")

	r.Join(e1, "room-a")
	r.Join(e2, "room-a")

	assert.True(t, r.Leave(e1, "room-a"))
	assert.False(t, r.Leave(e1, "room-a"), "second leave is a no-op")
	assert.False(t, r.IsMember("room-a", "e1"))

	roomID, ok := r.RemoveEndpoint(e2)
	require.True(t, ok)
	assert.Equal(t, "room-a", roomID)
	assert.Empty(t, r.Members("room-a"))

	_, ok = r.RemoveEndpoint(e2)
	assert.False(t, ok)
}

func TestRooms_BroadcastExcludesSender(t *testing.T) {
	r := signal.NewRooms()
	e1 := newFakeEndpoint("e1")
	e2 := newFakeEndpoint("e2")
	e3 := newFakeEndpoint("e3")

	r.Join(e1, "room-a")
	r.Join(e2, "room-a")
	r.Join(e3, "room-a")

	ev := signal.Event{Type: signal.EvtTyping, Payload: signal.TypingEvent{UserName: "Alice"}}
	r.Broadcast("room-a", ev, "e1")

	assert.Empty(t, e1.Events())
	assert.Len(t, e2.Events(), 1)
	assert.Len(t, e3.Events(), 1)
}

func TestRooms_BroadcastWithoutExclusionReachesEveryone(t *testing.T) {
	r := signal.NewRooms()
	e1 := newFakeEndpoint("e1")
	e2 := newFakeEndpoint("e2")

	r.Join(e1, "room-a")
	r.Join(e2, "room-a")

	ev := signal.Event{Type: signal.EvtReceiveMessage}
	r.Broadcast("room-a", ev, "")

	assert.Len(t, e1.Events(), 1)
	assert.Len(t, e2.Events(), 1)
}
