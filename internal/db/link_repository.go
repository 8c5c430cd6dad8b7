package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LinkRepository persists chat-user to Minecraft-IGN links.
type LinkRepository struct {
	pool *pgxpool.Pool
}

// NewLinkRepository creates a repository backed by the given pool.
func NewLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

// Get returns the linked IGN for a chat user, or "" if none exists.
func (r *LinkRepository) Get(ctx context.Context, twitchUser string) (string, error) {
	twitchUser = strings.ToLower(twitchUser)
	var ign string
	err := r.pool.QueryRow(ctx,
		`SELECT minecraft_ign FROM links WHERE twitch_user = $1`, twitchUser,
	).Scan(&ign)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("querying link for %q: %w", twitchUser, err)
	}
	return ign, nil
}

// Set stores or replaces the link for a chat user.
func (r *LinkRepository) Set(ctx context.Context, twitchUser, ign string) error {
	twitchUser = strings.ToLower(twitchUser)
	_, err := r.pool.Exec(ctx,
		`INSERT INTO links (twitch_user, minecraft_ign, linked_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (twitch_user) DO UPDATE
		 SET minecraft_ign = EXCLUDED.minecraft_ign, linked_at = EXCLUDED.linked_at`,
		twitchUser, ign, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("storing link for %q: %w", twitchUser, err)
	}
	return nil
}

// Delete removes a chat user's link and reports whether one existed.
func (r *LinkRepository) Delete(ctx context.Context, twitchUser string) (bool, error) {
	twitchUser = strings.ToLower(twitchUser)
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM links WHERE twitch_user = $1`, twitchUser,
	)
	if err != nil {
		return false, fmt.Errorf("deleting link for %q: %w", twitchUser, err)
	}
	return tag.RowsAffected() > 0, nil
}
