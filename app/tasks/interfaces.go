package tasks

import (
	"context"

	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background task processing.
//
//	scheduler := NewScheduler(configCache, wallRepo, itemRepo, fetcher, parser, processor, interval, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewProcessWallTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// WallFetcher downloads a wall together with its owner metadata
type WallFetcher interface {
	FetchWall(ctx context.Context, owner feed.Owner, count int, parser *feed.Parser) (*vkapi.Wall, error)
}

var _ WallFetcher = (*vkapi.Client)(nil)
