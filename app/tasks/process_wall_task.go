package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/feed"
)

type ProcessWallTask struct {
	Task
	WallConfig *feed.Config
	fetcher    WallFetcher
	parser     *feed.Parser
	processor  *feed.Processor
	wallRepo   database.WallRepository
	itemRepo   database.ItemRepository
}

func NewProcessWallTask(wallConfig *feed.Config, fetcher WallFetcher, parser *feed.Parser, processor *feed.Processor,
	wallRepo database.WallRepository, itemRepo database.ItemRepository) *ProcessWallTask {
	return &ProcessWallTask{
		Task:       NewTask(TaskTypeProcessWall, wallConfig.Name),
		WallConfig: wallConfig,
		fetcher:    fetcher,
		parser:     parser,
		processor:  processor,
		wallRepo:   wallRepo,
		itemRepo:   itemRepo,
	}
}

func (t *ProcessWallTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.WallConfig.Settings.Enabled {
		slog.Debug("Wall disabled, skipping", "wall", t.WallName)
		return nil
	}

	owner, err := feed.ParseOwner(t.WallConfig.Owner)
	if err != nil {
		return fmt.Errorf("invalid owner: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(t.WallConfig.Settings.Timeout)*time.Second)
	defer cancel()

	wall, err := t.fetcher.FetchWall(fetchCtx, owner, t.WallConfig.Count, t.parser)
	if err != nil {
		return fmt.Errorf("failed to fetch wall: %w", err)
	}

	items := t.processor.Run(wall.Posts, t.WallConfig.Filterer())

	if err := t.wallRepo.UpsertWall(ctx, t.WallName, t.WallConfig.Owner); err != nil {
		return fmt.Errorf("failed to register wall: %w", err)
	}

	for _, item := range items {
		if err := t.itemRepo.UpsertItem(ctx, t.WallName, item); err != nil {
			return fmt.Errorf("failed to store item: %w", err)
		}
	}

	// posts stored earlier but rejected by the current filters leave the feed
	deleted, err := t.itemRepo.DeleteItems(ctx, t.WallName, rejectedGUIDs(wall.Posts, items))
	if err != nil {
		return fmt.Errorf("failed to purge filtered items: %w", err)
	}

	nextFetch := time.Now().UTC().Add(time.Duration(t.WallConfig.Settings.RefreshInterval) * time.Second)
	if err := t.wallRepo.UpdateWallMetadata(ctx, t.WallName, wall.Metadata, nextFetch); err != nil {
		return fmt.Errorf("failed to update wall metadata: %w", err)
	}

	slog.Info("Task completed",
		"type", "ProcessWall",
		"wall", t.WallName,
		"duration", t.elapsed(),
		"total", len(wall.Posts),
		"filtered", len(wall.Posts)-len(items),
		"stored", len(items),
		"purged", deleted)

	return nil
}

func rejectedGUIDs(posts []feed.Post, kept []feed.Item) []string {
	keptGUIDs := make(map[string]struct{}, len(kept))
	for _, item := range kept {
		keptGUIDs[item.GUID] = struct{}{}
	}

	var rejected []string
	for _, post := range posts {
		guid := feed.PostURL(post)
		if _, ok := keptGUIDs[guid]; !ok {
			rejected = append(rejected, guid)
		}
	}
	return rejected
}
