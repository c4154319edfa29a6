package signal

import "sync"

// identity is the user bound to an endpoint at registration time.
type identity struct {
	userID   string
	userName string
}

// Presence maps a logical user identity to its single live endpoint.
// At most one endpoint per identity: re-registering overwrites, last wins.
// Purely in-memory with process lifetime; clients re-register on reconnect.
type Presence struct {
	// mu protects both maps.
	mu sync.RWMutex

	// byUser maps user identity to the most recently registered endpoint.
	byUser map[string]Endpoint

	// byEndpoint maps endpoint id back to the identity registered on it, so
	// a disconnect removes exactly the mapping this endpoint owned.
	byEndpoint map[string]identity
}

// NewPresence creates an empty presence registry.
func NewPresence() *Presence {
	return &Presence{
		byUser:     make(map[string]Endpoint),
		byEndpoint: make(map[string]identity),
	}
}

// Register binds userID to ep, overwriting any prior mapping for userID.
// Idempotent: registering the same endpoint again is a harmless overwrite.
func (p *Presence) Register(userID, userName string, ep Endpoint) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.byUser[userID] = ep
	p.byEndpoint[ep.ID()] = identity{userID: userID, userName: userName}
}

// Lookup returns the live endpoint for userID. A false return is not an
// error; callers fall back to notification delivery.
func (p *Presence) Lookup(userID string) (Endpoint, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ep, ok := p.byUser[userID]
	return ep, ok
}

// Remove clears the mapping owned by ep on disconnect. The reverse index is
// consulted first so that an old endpoint disconnecting after a re-register
// never evicts the newer registration. It returns the identity that actually
// went offline; ok is false for unregistered or stale endpoints, in which
// case no offline event should be broadcast.
func (p *Presence) Remove(ep Endpoint) (userID, userName string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, registered := p.byEndpoint[ep.ID()]
	if !registered {
		return "", "", false
	}
	delete(p.byEndpoint, ep.ID())

	current, live := p.byUser[id.userID]
	if !live || current.ID() != ep.ID() {
		// A newer endpoint re-registered this identity; keep its routing.
		return "", "", false
	}

	delete(p.byUser, id.userID)
	return id.userID, id.userName, true
}

// Count returns the number of identities currently online.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.byUser)
}
