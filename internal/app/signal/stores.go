package signal

import (
	"context"
	"time"

	"github.com/skillswap/signaling/internal/app/user"
)

// NotificationKind classifies persisted notifications.
type NotificationKind string

const (
	NotificationMessage      NotificationKind = "message"
	NotificationCall         NotificationKind = "call"
	NotificationPostInterest NotificationKind = "post_interest"
	NotificationSkillRequest NotificationKind = "skill_request"
)

// StoredMessage is a persisted chat message as read back from the store.
type StoredMessage struct {
	ID         string
	SenderID   string
	ReceiverID string
	Text       string
	Seen       bool
	CreatedAt  time.Time

	// SenderName is the display name denormalized from the user directory at
	// query time. Empty when the directory has no row for the sender.
	SenderName string
}

// NotificationData is the structured payload attached to a notification.
type NotificationData struct {
	ChatID   string `json:"chatId,omitempty"`
	CallType string `json:"callType,omitempty"`
}

// NewNotification describes a notification to persist.
type NewNotification struct {
	RecipientID string
	SenderID    string
	Kind        NotificationKind
	Title       string
	Body        string
	Data        NotificationData
}

// StoredNotification is a persisted notification as returned by the store.
type StoredNotification struct {
	ID          string
	RecipientID string
	SenderID    string
	Kind        NotificationKind
	Title       string
	Body        string
	Data        NotificationData
	Seen        bool
	CreatedAt   time.Time
}

// MessageStore is the durability collaborator for chat messages. Every live
// deliverable message must be persisted here before it is relayed.
type MessageStore interface {
	// Persist durably records a message and returns the stored record,
	// including its authoritative creation timestamp.
	Persist(ctx context.Context, senderID, receiverID, text string) (StoredMessage, error)

	// QueryUnseen returns unseen messages for receiverID ordered oldest-first,
	// capped at limit. An empty senderID matches all peers.
	QueryUnseen(ctx context.Context, receiverID, senderID string, limit int) ([]StoredMessage, error)

	// MarkSeen flags every unseen message from senderID to receiverID as seen.
	MarkSeen(ctx context.Context, receiverID, senderID string) error
}

// NotificationStore persists notifications for recipients that are offline or
// not actively viewing the relevant conversation.
type NotificationStore interface {
	Create(ctx context.Context, n NewNotification) (StoredNotification, error)
}

// UserDirectory resolves display information for a user identity. It belongs
// to the external account service; this core only reads it.
type UserDirectory interface {
	ResolveDisplayInfo(ctx context.Context, userID string) (user.Info, error)
}
