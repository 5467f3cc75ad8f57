package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrQueueClosed = errors.New("task queue is closed")
)

// Task runs at most once. A failing or panicking task is logged and dropped,
// never retried.
type Task func(ctx context.Context)

type Config struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:     4,
		QueueSize:   256,
		TaskTimeout: 30 * time.Second,
	}
}

type Queue struct {
	workers     int
	taskTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	tasks  chan Task

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	completed atomic.Int64
	failed    atomic.Int64
}

func NewQueue(cfg Config) *Queue {
	defaults := DefaultConfig()
	if cfg.Workers < 1 {
		cfg.Workers = defaults.Workers
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = defaults.TaskTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		workers:     cfg.Workers,
		taskTimeout: cfg.TaskTimeout,
		tasks:       make(chan Task, cfg.QueueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.run()
	}
}

// Submit never blocks: a full queue rejects the task with ErrQueueFull.
func (q *Queue) Submit(task Task) error {
	if task == nil {
		return errors.New("task is nil")
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new tasks and waits for queued ones to finish. When ctx ends
// first, running tasks see their context cancelled and the rest are dropped.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}

func (q *Queue) Completed() int64 {
	return q.completed.Load()
}

func (q *Queue) Failed() int64 {
	return q.failed.Load()
}

func (q *Queue) run() {
	defer q.wg.Done()

	for task := range q.tasks {
		if q.ctx.Err() != nil {
			continue
		}
		q.process(task)
	}
}

func (q *Queue) process(task Task) {
	ctx, cancel := context.WithTimeout(q.ctx, q.taskTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			q.failed.Add(1)
			logrus.WithField("panic", r).Error("background task panicked")
		}
	}()

	task(ctx)
	q.completed.Add(1)
}
