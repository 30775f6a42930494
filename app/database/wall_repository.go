package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lysyi3m/vk-comb/app/feed"
)

type WallRepo struct {
	db *DB
}

func NewWallRepository(db *DB) *WallRepo {
	return &WallRepo{db: db}
}

// UpsertWall registers a configured wall, keeping its metadata when it already exists
func (r *WallRepo) UpsertWall(ctx context.Context, name, owner string) error {
	now := formatTime(time.Now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO walls (name, owner, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			owner = excluded.owner,
			updated_at = excluded.updated_at
	`, name, owner, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert wall: %w", err)
	}
	return nil
}

func (r *WallRepo) UpdateWallMetadata(ctx context.Context, name string, metadata feed.Metadata, nextFetch time.Time) error {
	now := formatTime(time.Now())
	res, err := r.db.ExecContext(ctx, `
		UPDATE walls
		SET title = ?, link = ?, description = ?, language = ?,
		    last_fetched_at = ?, next_fetch_at = ?, updated_at = ?
		WHERE name = ?
	`, metadata.Title, metadata.Link, metadata.Description, metadata.Language,
		now, formatTime(nextFetch), now, name)
	if err != nil {
		return fmt.Errorf("failed to update wall metadata: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("wall '%s' is not registered", name)
	}

	return nil
}

func (r *WallRepo) GetWall(ctx context.Context, name string) (*Wall, error) {
	var (
		wall                   Wall
		lastFetched, nextFetch *string
		createdAt, updatedAt   string
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT name, owner, title, link, description, language,
		       last_fetched_at, next_fetch_at, created_at, updated_at
		FROM walls
		WHERE name = ?
	`, name).Scan(
		&wall.Name, &wall.Owner, &wall.Title, &wall.Link, &wall.Description, &wall.Language,
		&lastFetched, &nextFetch, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wall: %w", err)
	}

	if wall.LastFetchedAt, err = parseNullableTime(lastFetched); err != nil {
		return nil, fmt.Errorf("failed to parse last_fetched_at: %w", err)
	}
	if wall.NextFetchAt, err = parseNullableTime(nextFetch); err != nil {
		return nil, fmt.Errorf("failed to parse next_fetch_at: %w", err)
	}
	if wall.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if wall.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &wall, nil
}

func (r *WallRepo) GetWallCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM walls").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get wall count: %w", err)
	}
	return count, nil
}
