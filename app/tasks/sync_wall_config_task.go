package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/feed"
)

type SyncWallConfigTask struct {
	Task
	WallConfig *feed.Config
	wallRepo   database.WallRepository
}

func NewSyncWallConfigTask(wallConfig *feed.Config, wallRepo database.WallRepository) *SyncWallConfigTask {
	return &SyncWallConfigTask{
		Task:       NewTask(TaskTypeSyncWallConfig, wallConfig.Name),
		WallConfig: wallConfig,
		wallRepo:   wallRepo,
	}
}

func (t *SyncWallConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.wallRepo.UpsertWall(ctx, t.WallConfig.Name, t.WallConfig.Owner); err != nil {
		return fmt.Errorf("failed to sync wall config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncWallConfig",
		"wall", t.WallName,
		"duration", t.elapsed())

	return nil
}
