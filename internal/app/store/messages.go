/*
Package store implements the signaling core's persistence collaborators on
PostgreSQL via pgx. The core only sees the interfaces declared in the signal
package; everything here is plain SQL.
*/
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/signaling/internal/app/signal"
)

// Messages is the pgx-backed signal.MessageStore.
type Messages struct {
	pool *pgxpool.Pool
}

// NewMessages constructs the message store on the shared connection pool.
func NewMessages(pool *pgxpool.Pool) *Messages {
	return &Messages{pool: pool}
}

// Persist durably records one message and returns the stored record with its
// authoritative creation timestamp.
func (s *Messages) Persist(ctx context.Context, senderID, receiverID, text string) (signal.StoredMessage, error) {
	msg := signal.StoredMessage{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Seen:       false,
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, text, seen)
		 VALUES ($1, $2, $3, $4, FALSE)
		 RETURNING created_at`,
		msg.ID, senderID, receiverID, text,
	).Scan(&msg.CreatedAt)
	if err != nil {
		return signal.StoredMessage{}, fmt.Errorf("failed to persist message: %w", err)
	}

	return msg, nil
}

// QueryUnseen returns unseen messages for receiverID ordered oldest-first.
// An empty senderID matches all peers. The sender display name is joined in
// from the users table and may come back empty when no row exists.
func (s *Messages) QueryUnseen(ctx context.Context, receiverID, senderID string, limit int) ([]signal.StoredMessage, error) {
	query := `SELECT m.id, m.sender_id, COALESCE(u.name, ''), m.receiver_id, m.text, m.seen, m.created_at
		 FROM messages m
		 LEFT JOIN users u ON u.id = m.sender_id
		 WHERE m.receiver_id = $1 AND NOT m.seen`

	args := []any{receiverID}
	if senderID != "" {
		query += ` AND m.sender_id = $2`
		args = append(args, senderID)
	}
	query += fmt.Sprintf(` ORDER BY m.created_at ASC LIMIT %d`, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unseen messages: %w", err)
	}
	defer rows.Close()

	var out []signal.StoredMessage
	for rows.Next() {
		var m signal.StoredMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.ReceiverID, &m.Text, &m.Seen, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unseen message row: %w", err)
		}
		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unseen messages: %w", err)
	}

	return out, nil
}

// MarkSeen flags every unseen message from senderID to receiverID as seen.
func (s *Messages) MarkSeen(ctx context.Context, receiverID, senderID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE messages SET seen = TRUE
		 WHERE receiver_id = $1 AND sender_id = $2 AND NOT seen`,
		receiverID, senderID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark messages seen: %w", err)
	}
	return nil
}
