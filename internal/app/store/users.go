package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/signaling/internal/app/user"
)

// ErrUserNotFound is returned when the directory has no row for an identity.
var ErrUserNotFound = errors.New("user not found")

// Directory is the pgx-backed signal.UserDirectory. The users table belongs
// to the external account service; this adapter only reads it.
type Directory struct {
	pool *pgxpool.Pool
}

// NewDirectory constructs the user directory on the shared pool.
func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// ResolveDisplayInfo returns the display information for userID.
func (d *Directory) ResolveDisplayInfo(ctx context.Context, userID string) (user.Info, error) {
	info := user.Info{ID: userID}

	err := d.pool.QueryRow(ctx,
		`SELECT name, avatar_url, email FROM users WHERE id = $1`,
		userID,
	).Scan(&info.Name, &info.AvatarURL, &info.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Info{}, ErrUserNotFound
		}
		return user.Info{}, fmt.Errorf("failed to resolve user %s: %w", userID, err)
	}

	return info, nil
}
