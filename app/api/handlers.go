package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/feed"
	"github.com/lysyi3m/vk-comb/app/tasks"
	"github.com/lysyi3m/vk-comb/app/vkapi"
)

const rssContentType = "application/xml; charset=utf-8"

func NewHandler(configCache *feed.ConfigCache, wallRepo database.WallRepository,
	itemRepo database.ItemRepository, generator GeneratorInterface,
	fetcher tasks.WallFetcher, parser *feed.Parser, processor *feed.Processor,
	scheduler tasks.TaskSchedulerInterface, feedCache *FeedCache,
	selfLink func(path string) string, timeout time.Duration) *Handler {
	return &Handler{
		configCache: configCache,
		wallRepo:    wallRepo,
		itemRepo:    itemRepo,
		generator:   generator,
		fetcher:     fetcher,
		parser:      parser,
		processor:   processor,
		scheduler:   scheduler,
		feedCache:   feedCache,
		selfLink:    selfLink,
		timeout:     timeout,
	}
}

// GetFeed serves a configured wall from the items stored by the background tasks.
func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")
	ctx := c.Request.Context()

	wallConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Wall configuration not found", "wall", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	wall, err := h.wallRepo.GetWall(ctx, name)
	if err != nil {
		slog.Error("Database error", "operation", "get_wall", "wall", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if wall == nil {
		slog.Error("Wall not found in database", "wall", name)
		c.Status(http.StatusNotFound)
		return
	}

	if wall.LastFetchedAt == nil {
		slog.Warn("Wall has not been fetched yet", "wall", name)
		c.Header("Retry-After", "60")
		c.Status(http.StatusServiceUnavailable)
		return
	}

	stored, err := h.itemRepo.GetItems(ctx, name, wallConfig.Settings.MaxItems)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "wall", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	items := make([]feed.Item, 0, len(stored))
	for _, item := range stored {
		items = append(items, item.ToFeedItem())
	}

	rss, err := h.generator.Run(wall.ToMetadata(), items, h.selfLink("/feeds/"+name))
	if err != nil {
		slog.Error("RSS generation error", "wall", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.Header("X-Feed-Name", name)
	c.Header("X-Last-Updated", wall.LastFetchedAt.Format(time.RFC3339))

	c.Data(http.StatusOK, rssContentType, []byte(rss))
}

// GetWall converts a wall on request: /wall?id=club1&count=20&include=...&exclude=...
func (h *Handler) GetWall(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.String(http.StatusBadRequest, "Empty identifier of user or group is passed")
		return
	}

	owner, err := feed.ParseOwner(id)
	if err != nil {
		c.String(http.StatusBadRequest, "%s", err.Error())
		return
	}

	count := feed.DefaultPostCount
	if raw := c.Query("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil || count < 1 || count > feed.MaxPostCount {
			c.String(http.StatusBadRequest, "count must be an integer between 1 and %d", feed.MaxPostCount)
			return
		}
	}

	include, exclude := c.Query("include"), c.Query("exclude")

	filterer, err := feed.NewFilterer(include, exclude)
	if err != nil {
		var patternErr *feed.PatternError
		if errors.As(err, &patternErr) {
			c.String(http.StatusBadRequest, "%s", patternErr.Error())
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	key := feedCacheKey(owner, count, include, exclude)
	if rss, ok := h.feedCache.Get(key); ok {
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, rssContentType, []byte(rss))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	wall, err := h.fetcher.FetchWall(ctx, owner, count, h.parser)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, vkapi.ErrUnknownOwner) {
			status = http.StatusBadRequest
		}
		slog.Error("Failed to fetch wall", "owner", owner.Slug(), "status", status, "error", err)
		c.String(status, "%s", err.Error())
		return
	}

	items := h.processor.Run(wall.Posts, filterer)

	rss, err := h.generator.Run(wall.Metadata, items, h.selfLink(c.Request.URL.RequestURI()))
	if err != nil {
		slog.Error("RSS generation error", "owner", owner.Slug(), "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	h.feedCache.Set(key, rss)

	slog.Debug("Wall converted", "owner", owner.Slug(), "posts", len(wall.Posts), "items", len(items))

	c.Header("X-Cache", "MISS")
	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.Data(http.StatusOK, rssContentType, []byte(rss))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if wallCount, err := h.wallRepo.GetWallCount(c.Request.Context()); err == nil {
		health["walls"] = wallCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()
	health["cached_feeds"] = h.feedCache.Size()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListWalls(c *gin.Context) {
	ctx := c.Request.Context()
	configs := h.configCache.GetConfigs()

	walls := make([]map[string]interface{}, 0, len(configs))

	for _, wallConfig := range configs {
		wallInfo := map[string]interface{}{
			"name":             wallConfig.Name,
			"owner":            wallConfig.Owner,
			"count":            wallConfig.Count,
			"title":            "",
			"enabled":          wallConfig.Settings.Enabled,
			"max_items":        wallConfig.Settings.MaxItems,
			"refresh_interval": (time.Duration(wallConfig.Settings.RefreshInterval) * time.Second).String(),
			"filters":          wallConfig.Filters,
		}

		if wall, err := h.wallRepo.GetWall(ctx, wallConfig.Name); err == nil && wall != nil {
			wallInfo["title"] = wall.Title
			wallInfo["last_fetched_at"] = wall.LastFetchedAt
			wallInfo["next_fetch_at"] = wall.NextFetchAt
			wallInfo["updated_at"] = wall.UpdatedAt
		}

		if itemCount, err := h.itemRepo.GetItemCount(ctx, wallConfig.Name); err == nil {
			wallInfo["item_count"] = itemCount
		}

		walls = append(walls, wallInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"walls": walls,
		"total": len(walls),
	})
}

// APIReloadWall re-reads the wall's YAML file and queues an immediate refresh.
func (h *Handler) APIReloadWall(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Wall configuration not found", "wall", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Wall configuration not found"})
		return
	}

	wallConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "wall", name, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	syncTask := tasks.NewSyncWallConfigTask(wallConfig, h.wallRepo)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "wall", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	queued := []gin.H{{"id": syncTask.ID, "type": syncTask.Type}}

	if wallConfig.Settings.Enabled {
		processTask := tasks.NewProcessWallTask(wallConfig, h.fetcher, h.parser, h.processor, h.wallRepo, h.itemRepo)
		if err := h.scheduler.EnqueueTask(processTask); err != nil {
			slog.Error("Error enqueueing process task", "wall", name, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Failed to enqueue process task",
				"details": err.Error(),
			})
			return
		}
		queued = append(queued, gin.H{"id": processTask.ID, "type": processTask.Type})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"wall": gin.H{
			"name":    name,
			"owner":   wallConfig.Owner,
			"enabled": wallConfig.Settings.Enabled,
		},
		"tasks": queued,
	})
}
