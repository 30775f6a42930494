package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/vk-comb/app/feed"
)

type ItemRepo struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// UpsertItem stores a generated item; a post that was edited on the wall replaces its previous version
func (r *ItemRepo) UpsertItem(ctx context.Context, wallName string, item feed.Item) error {
	categories, err := json.Marshal(item.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO items (wall_name, guid, link, title, description, categories, published_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (wall_name, guid) DO UPDATE SET
			link = excluded.link,
			title = excluded.title,
			description = excluded.description,
			categories = excluded.categories,
			published_at = excluded.published_at
	`, wallName, item.GUID, item.Link, item.Title, item.Description, string(categories),
		formatTime(item.PublishedAt), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}

	return nil
}

// DeleteItems removes the given items of a wall and reports how many rows were removed
func (r *ItemRepo) DeleteItems(ctx context.Context, wallName string, guids []string) (int64, error) {
	if len(guids) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(guids)+1)
	args = append(args, wallName)
	for _, guid := range guids {
		args = append(args, guid)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(guids)), ", ")
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM items WHERE wall_name = ? AND guid IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete items: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted items: %w", err)
	}
	return deleted, nil
}

// GetItems returns the newest items of a wall
func (r *ItemRepo) GetItems(ctx context.Context, wallName string, limit int) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, wall_name, guid, link, title, description, categories, published_at, created_at
		FROM items
		WHERE wall_name = ?
		ORDER BY published_at DESC, id DESC
		LIMIT ?
	`, wallName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item                   Item
			categories             string
			publishedAt, createdAt string
		)
		if err := rows.Scan(&item.ID, &item.WallName, &item.GUID, &item.Link, &item.Title,
			&item.Description, &categories, &publishedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}

		if err := json.Unmarshal([]byte(categories), &item.Categories); err != nil {
			return nil, fmt.Errorf("failed to decode categories of item %d: %w", item.ID, err)
		}
		if item.PublishedAt, err = parseTime(publishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse published_at of item %d: %w", item.ID, err)
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at of item %d: %w", item.ID, err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

func (r *ItemRepo) GetItemCount(ctx context.Context, wallName string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items WHERE wall_name = ?", wallName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

// ToFeedItem converts a stored item back into the form the generator renders
func (i Item) ToFeedItem() feed.Item {
	return feed.Item{
		GUID:        i.GUID,
		Title:       i.Title,
		Link:        i.Link,
		Description: i.Description,
		PublishedAt: i.PublishedAt,
		Categories:  i.Categories,
	}
}

// ToMetadata is the channel metadata of a stored wall
func (w Wall) ToMetadata() feed.Metadata {
	return feed.Metadata{
		Title:       w.Title,
		Link:        w.Link,
		Description: w.Description,
		Language:    w.Language,
	}
}
