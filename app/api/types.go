package api

import (
	"time"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/tasks"
)

type GeneratorInterface interface {
	Run(metadata feed.Metadata, items []feed.Item, selfLink string) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	configCache *feed.ConfigCache
	wallRepo    database.WallRepository
	itemRepo    database.ItemRepository
	generator   GeneratorInterface
	fetcher     tasks.WallFetcher
	parser      *feed.Parser
	processor   *feed.Processor
	scheduler   tasks.TaskSchedulerInterface
	feedCache   *FeedCache
	selfLink    func(path string) string
	timeout     time.Duration
}
