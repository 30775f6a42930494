package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/vk-comb/app/database"
	"github.com/lysyi3m/vk-comb/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	wallRepo    database.WallRepository
	itemRepo    database.ItemRepository
	configCache *feed.ConfigCache
	fetcher     WallFetcher
	parser      *feed.Parser
	processor   *feed.Processor
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	// refreshes queued by the scheduler itself, wall name to task ID
	mu       sync.Mutex
	inFlight map[string]string
}

func NewScheduler(configCache *feed.ConfigCache, wallRepo database.WallRepository, itemRepo database.ItemRepository,
	fetcher WallFetcher, parser *feed.Parser, processor *feed.Processor,
	interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		wallRepo:    wallRepo,
		itemRepo:    itemRepo,
		configCache: configCache,
		fetcher:     fetcher,
		parser:      parser,
		processor:   processor,
		interval:    interval,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
		inFlight:    make(map[string]string),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueStartupTasks registers every configured wall, disabled ones included,
// and refreshes the enabled ones.
func (s *Scheduler) enqueueStartupTasks() {
	wallConfigs := s.configCache.GetConfigs()
	if len(wallConfigs) == 0 {
		slog.Debug("No wall configurations found")
		return
	}

	slog.Debug("Processing wall configurations", "count", len(wallConfigs))

	for _, wallConfig := range wallConfigs {
		syncTask := NewSyncWallConfigTask(wallConfig, s.wallRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncWallConfigTask", "wall", wallConfig.Name, "error", err)
			continue
		}

		if !wallConfig.Settings.Enabled {
			slog.Debug("Wall disabled, skipping ProcessWallTask", "wall", wallConfig.Name)
			continue
		}

		s.enqueueRefresh(wallConfig)
	}
}

func (s *Scheduler) enqueueTasks() {
	wallConfigs := s.configCache.GetEnabledConfigs()
	if len(wallConfigs) == 0 {
		slog.Debug("No enabled wall configurations found")
		return
	}

	for _, wallConfig := range wallConfigs {
		wall, err := s.wallRepo.GetWall(s.ctx, wallConfig.Name)
		if err != nil {
			slog.Warn("Failed to get wall from database, skipping", "wall", wallConfig.Name, "error", err)
			continue
		}
		if wall == nil {
			slog.Warn("Wall not found in database, skipping", "wall", wallConfig.Name)
			continue
		}

		now := time.Now().UTC()
		if wall.NextFetchAt != nil && wall.NextFetchAt.After(now) {
			slog.Debug("Wall not due for refresh yet", "wall", wallConfig.Name, "next_fetch_at", wall.NextFetchAt)
			continue
		}

		s.enqueueRefresh(wallConfig)
	}
}

// enqueueRefresh queues a ProcessWallTask unless a refresh of the wall is
// already queued, running or waiting for a retry.
func (s *Scheduler) enqueueRefresh(wallConfig *feed.Config) {
	processTask := NewProcessWallTask(wallConfig, s.fetcher, s.parser, s.processor, s.wallRepo, s.itemRepo)

	s.mu.Lock()
	if _, busy := s.inFlight[wallConfig.Name]; busy {
		s.mu.Unlock()
		slog.Debug("Wall refresh already in flight, skipping", "wall", wallConfig.Name)
		return
	}
	s.inFlight[wallConfig.Name] = processTask.ID
	s.mu.Unlock()

	if err := s.EnqueueTask(processTask); err != nil {
		s.release(processTask.Meta())
		slog.Warn("Failed to enqueue ProcessWallTask", "wall", wallConfig.Name, "error", err)
	}
}

func (s *Scheduler) release(meta *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[meta.WallName] == meta.ID {
		delete(s.inFlight, meta.WallName)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	meta := task.Meta()
	meta.begin()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		s.release(meta)
		return
	}

	delay, ok := meta.nextRetry()
	if !ok {
		s.release(meta)
		slog.Error("Task failed after maximum attempts", "worker_id", workerID, "type", string(meta.Type), "wall", meta.WallName, "id", meta.ID, "attempts", meta.Attempt, "error", err)
		return
	}

	slog.Warn("Task failed, retry scheduled", "worker_id", workerID, "type", string(meta.Type), "wall", meta.WallName, "attempt", meta.Attempt, "delay", delay.String(), "error", err)

	go func() {
		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			s.release(meta)
			slog.Debug("Scheduler stopped, dropping task retry", "type", string(meta.Type), "id", meta.ID)
			return
		}
		if retryErr := s.EnqueueTask(task); retryErr != nil {
			s.release(meta)
			slog.Error("Failed to re-enqueue task", "type", string(meta.Type), "id", meta.ID, "error", retryErr)
		}
	}()
}
