package signal

import (
	"sort"
	"strings"
	"sync"
)

// roomIDSeparator joins the two participant identities into a room id.
const roomIDSeparator = "_"

// DeriveRoomID computes the canonical conversation room id for two user
// identities. Order-independent: both sides derive the same id without a
// round trip.
func DeriveRoomID(identityA, identityB string) string {
	ids := []string{identityA, identityB}
	sort.Strings(ids)
	return strings.Join(ids, roomIDSeparator)
}

// PeerFromRoomID extracts the other participant's identity from a derived
// room id. ok is false when the room id is not a two-party conversation id or
// selfID is not a participant.
func PeerFromRoomID(roomID, selfID string) (string, bool) {
	parts := strings.Split(roomID, roomIDSeparator)
	if len(parts) != 2 {
		return "", false
	}

	switch selfID {
	case parts[0]:
		return parts[1], true
	case parts[1]:
		return parts[0], true
	default:
		return "", false
	}
}

// Rooms tracks which endpoints are grouped into which conversation rooms.
// Membership is endpoint-scoped: an endpoint is in at most one room at a
// time, and joining a new room implicitly leaves the previous one. Rooms are
// created on first join and vanish when their last member leaves.
type Rooms struct {
	// mu protects both maps.
	mu sync.RWMutex

	// members maps room id to its member endpoints keyed by endpoint id.
	members map[string]map[string]Endpoint

	// current maps endpoint id to the room it currently occupies.
	current map[string]string
}

// NewRooms creates an empty room membership tracker.
func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[string]map[string]Endpoint),
		current: make(map[string]string),
	}
}

// Join moves ep into roomID, leaving any previously joined room first.
// It returns the room that was left, if any.
func (r *Rooms) Join(ep Endpoint, roomID string) (left string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, in := r.current[ep.ID()]; in && prev != roomID {
		r.dropLocked(ep.ID(), prev)
		left, ok = prev, true
	}

	room := r.members[roomID]
	if room == nil {
		room = make(map[string]Endpoint)
		r.members[roomID] = room
	}
	room[ep.ID()] = ep
	r.current[ep.ID()] = roomID

	return left, ok
}

// Leave removes ep from roomID. Returns false when ep was not a member.
func (r *Rooms) Leave(ep Endpoint, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current[ep.ID()] != roomID {
		return false
	}

	r.dropLocked(ep.ID(), roomID)
	delete(r.current, ep.ID())
	return true
}

// RemoveEndpoint drops ep from whatever room it occupies, on disconnect.
func (r *Rooms) RemoveEndpoint(ep Endpoint) (roomID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok = r.current[ep.ID()]
	if !ok {
		return "", false
	}

	r.dropLocked(ep.ID(), roomID)
	delete(r.current, ep.ID())
	return roomID, true
}

// dropLocked removes one membership entry and garbage-collects empty rooms.
// Callers must hold mu.
func (r *Rooms) dropLocked(endpointID, roomID string) {
	room, exists := r.members[roomID]
	if !exists {
		return
	}

	delete(room, endpointID)
	if len(room) == 0 {
		delete(r.members, roomID)
	}
}

// IsMember reports whether the endpoint with endpointID is currently in roomID.
func (r *Rooms) IsMember(roomID, endpointID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current[endpointID] == roomID
}

// Members returns a snapshot of the endpoints currently in roomID.
func (r *Rooms) Members(roomID string) []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.members[roomID]
	out := make([]Endpoint, 0, len(room))
	for _, ep := range room {
		out = append(out, ep)
	}
	return out
}

// Broadcast fans ev out to every member of roomID. excludeID skips one
// endpoint, typically the sender; pass "" to include everyone. The snapshot
// is taken under the read lock, emission happens outside it.
func (r *Rooms) Broadcast(roomID string, ev Event, excludeID string) {
	r.mu.RLock()
	targets := make([]Endpoint, 0, len(r.members[roomID]))
	for id, ep := range r.members[roomID] {
		if id == excludeID {
			continue
		}
		targets = append(targets, ep)
	}
	r.mu.RUnlock()

	for _, ep := range targets {
		ep.Send(ev)
	}
}
