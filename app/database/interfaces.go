package database

import (
	"context"
	"time"

	"github.com/lysyi3m/vk-comb/app/feed"
)

type WallRepository interface {
	GetWall(ctx context.Context, name string) (*Wall, error)
	GetWallCount(ctx context.Context) (int, error)

	UpsertWall(ctx context.Context, name, owner string) error
	UpdateWallMetadata(ctx context.Context, name string, metadata feed.Metadata, nextFetch time.Time) error
}

type ItemRepository interface {
	GetItems(ctx context.Context, wallName string, limit int) ([]Item, error)
	GetItemCount(ctx context.Context, wallName string) (int, error)

	UpsertItem(ctx context.Context, wallName string, item feed.Item) error
	DeleteItems(ctx context.Context, wallName string, guids []string) (int64, error)
}

var (
	_ WallRepository = (*WallRepo)(nil)
	_ ItemRepository = (*ItemRepo)(nil)
)
