package tasks

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

type TaskType string

const (
	TaskTypeProcessWall    TaskType = "process_wall"
	TaskTypeSyncWallConfig TaskType = "sync_wall_config"
)

const (
	DefaultMaxAttempts = 4
	baseRetryDelay     = time.Second
	maxRetryDelay      = 30 * time.Second
)

var taskSeq atomic.Uint64

// TaskInterface is a unit of work executed by a scheduler worker.
type TaskInterface interface {
	Execute(ctx context.Context) error
	Meta() *Task
}

// Task carries the bookkeeping shared by all task kinds. Concrete tasks embed it.
type Task struct {
	ID          string
	Type        TaskType
	WallName    string
	Attempt     int
	MaxAttempts int
	StartedAt   time.Time
}

func NewTask(taskType TaskType, wallName string) Task {
	return Task{
		ID:          fmt.Sprintf("%s-%d-%d", taskType, time.Now().Unix(), taskSeq.Add(1)),
		Type:        taskType,
		WallName:    wallName,
		MaxAttempts: DefaultMaxAttempts,
	}
}

func (t *Task) Meta() *Task {
	return t
}

func (t *Task) begin() {
	t.Attempt++
	t.StartedAt = time.Now()
}

func (t *Task) elapsed() time.Duration {
	if t.StartedAt.IsZero() {
		return 0
	}
	return time.Since(t.StartedAt)
}

// nextRetry reports the delay before the next attempt, doubling from one
// second and capped at thirty. ok is false once attempts are exhausted.
func (t *Task) nextRetry() (delay time.Duration, ok bool) {
	if t.Attempt >= t.MaxAttempts {
		return 0, false
	}

	shift := max(t.Attempt-1, 0)
	delay = baseRetryDelay << shift
	if delay <= 0 || delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay, true
}
