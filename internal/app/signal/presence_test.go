package signal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/signaling/internal/app/signal"
)

func TestPresence_LastRegistrationWins(t *testing.T) {
	p := signal.NewPresence()
	e1 := newFakeEndpoint("e1")
	e2 := newFakeEndpoint("e2")

	p.Register("user-a", "Alice", e1)
	p.Register("user-a", "Alice", e2)

	ep, ok := p.Lookup("user-a")
	require.True(t, ok)
	assert.Equal(t, "e2", ep.ID())
	assert.Equal(t, 1, p.Count())
}

func TestPresence_LookupAbsentIdentity(t *testing.T) {
	p := signal.NewPresence()

	_, ok := p.Lookup("nobody")
	assert.False(t, ok)
}

func TestPresence_RemoveStaleEndpointKeepsNewerRegistration(t *testing.T) {
	p := signal.NewPresence()
	e1 := newFakeEndpoint("e1")
	e2 := newFakeEndpoint("e2")

	p.Register("user-a", "Alice", e1)
	p.Register("user-a", "Alice", e2)

	// The old tab disconnects after the re-register; routing must survive.
	_, _, ok := p.Remove(e1)
	assert.False(t, ok, "stale endpoint removal must not report the user offline")

	ep, found := p.Lookup("user-a")
	require.True(t, found)
	assert.Equal(t, "e2", ep.ID())

	// The live endpoint disconnecting does take the user offline.
	userID, userName, ok := p.Remove(e2)
	require.True(t, ok)
	assert.Equal(t, "user-a", userID)
	assert.Equal(t, "Alice", userName)

	_, found = p.Lookup("user-a")
	assert.False(t, found)
}

func TestPresence_RemoveUnregisteredEndpointIsSilent(t *testing.T) {
	p := signal.NewPresence()

	_, _, ok := p.Remove(newFakeEndpoint("ghost"))
	assert.False(t, ok)
}

func TestPresence_ReRegisterSameEndpointIsIdempotent(t *testing.T) {
	p := signal.NewPresence()
	e1 := newFakeEndpoint("e1")

	p.Register("user-a", "Alice", e1)
	p.Register("user-a", "Alice", e1)

	ep, ok := p.Lookup("user-a")
	require.True(t, ok)
	assert.Equal(t, "e1", ep.ID())
	assert.Equal(t, 1, p.Count())
}
