package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/signaling/internal/app/signal"
)

// Notifications is the pgx-backed signal.NotificationStore.
type Notifications struct {
	pool *pgxpool.Pool
}

// NewNotifications constructs the notification store on the shared pool.
func NewNotifications(pool *pgxpool.Pool) *Notifications {
	return &Notifications{pool: pool}
}

// Create persists one notification and returns the stored record.
func (s *Notifications) Create(ctx context.Context, n signal.NewNotification) (signal.StoredNotification, error) {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return signal.StoredNotification{}, fmt.Errorf("failed to encode notification data: %w", err)
	}

	stored := signal.StoredNotification{
		ID:          uuid.NewString(),
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		Kind:        n.Kind,
		Title:       n.Title,
		Body:        n.Body,
		Data:        n.Data,
		Seen:        false,
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO notifications (id, recipient_id, sender_id, kind, title, body, data, seen)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		 RETURNING created_at`,
		stored.ID, n.RecipientID, n.SenderID, string(n.Kind), n.Title, n.Body, data,
	).Scan(&stored.CreatedAt)
	if err != nil {
		return signal.StoredNotification{}, fmt.Errorf("failed to persist notification: %w", err)
	}

	return stored, nil
}
