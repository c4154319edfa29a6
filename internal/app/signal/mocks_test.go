package signal_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/skillswap/signaling/internal/app/signal"
	"github.com/skillswap/signaling/internal/app/user"
)

// MockMessageStore is a testify mock of the signal.MessageStore interface.
type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) Persist(ctx context.Context, senderID, receiverID, text string) (signal.StoredMessage, error) {
	args := m.Called(ctx, senderID, receiverID, text)
	return args.Get(0).(signal.StoredMessage), args.Error(1)
}

func (m *MockMessageStore) QueryUnseen(ctx context.Context, receiverID, senderID string, limit int) ([]signal.StoredMessage, error) {
	args := m.Called(ctx, receiverID, senderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]signal.StoredMessage), args.Error(1)
}

func (m *MockMessageStore) MarkSeen(ctx context.Context, receiverID, senderID string) error {
	args := m.Called(ctx, receiverID, senderID)
	return args.Error(0)
}

// MockNotificationStore is a testify mock of the signal.NotificationStore interface.
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, n signal.NewNotification) (signal.StoredNotification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(signal.StoredNotification), args.Error(1)
}

// MockDirectory is a testify mock of the signal.UserDirectory interface.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ResolveDisplayInfo(ctx context.Context, userID string) (user.Info, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(user.Info), args.Error(1)
}

// fakeEndpoint is an in-memory Endpoint recording every event sent to it.
type fakeEndpoint struct {
	id string

	mu     sync.Mutex
	events []signal.Event
}

func newFakeEndpoint(id string) *fakeEndpoint {
	return &fakeEndpoint{id: id}
}

func (f *fakeEndpoint) ID() string {
	return f.id
}

func (f *fakeEndpoint) Send(ev signal.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

// Events returns a snapshot of everything sent to this endpoint.
func (f *fakeEndpoint) Events() []signal.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]signal.Event, len(f.events))
	copy(out, f.events)
	return out
}

// EventsOfType returns the recorded events of one type, in emission order.
func (f *fakeEndpoint) EventsOfType(t signal.EventType) []signal.Event {
	var out []signal.Event
	for _, ev := range f.Events() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// fakeBoundEndpoint is a fakeEndpoint carrying a token-bound identity.
type fakeBoundEndpoint struct {
	*fakeEndpoint
	boundUserID string
}

func newFakeBoundEndpoint(id, boundUserID string) *fakeBoundEndpoint {
	return &fakeBoundEndpoint{fakeEndpoint: newFakeEndpoint(id), boundUserID: boundUserID}
}

func (f *fakeBoundEndpoint) BoundUserID() string {
	return f.boundUserID
}

// newTestHub wires a Hub with fresh mocks for every test.
func newTestHub() (*signal.Hub, *MockMessageStore, *MockNotificationStore, *MockDirectory) {
	messages := new(MockMessageStore)
	notifs := new(MockNotificationStore)
	directory := new(MockDirectory)
	hub := signal.NewHub(messages, notifs, directory)
	return hub, messages, notifs, directory
}

// expectEmptyBacklog arms the backlog query fired by every registration.
func expectEmptyBacklog(messages *MockMessageStore, userID string) {
	messages.On("QueryUnseen", mock.Anything, userID, "", 100).
		Return([]signal.StoredMessage{}, nil)
}
