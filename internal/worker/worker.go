package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one unit of background work. Fn runs at most once.
type Task struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Pool runs background I/O tasks (persistence writes, export rendering)
// on a bounded set of goroutines. Task failures are logged, never
// propagated; durable-write callers treat persistence as best effort.
type Pool struct {
	logger *slog.Logger

	concurrency int
	queueSize   int

	mu      sync.RWMutex
	running bool
	tasks   chan Task
	doneCh  chan struct{}
}

// Config holds configuration for the pool.
type Config struct {
	Logger      *slog.Logger
	Concurrency int // Number of concurrent task processors
	QueueSize   int // Pending task buffer before Submit blocks
}

// NewPool creates a new background task pool.
func NewPool(cfg Config) *Pool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}

	return &Pool{
		logger:      logger,
		concurrency: concurrency,
		queueSize:   queueSize,
	}
}

// Start begins the worker loop.
// It runs until Stop is called or context is cancelled.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.tasks = make(chan Task, p.queueSize)
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	p.logger.Info("worker pool starting",
		"concurrency", p.concurrency,
		"queue_size", p.queueSize,
	)

	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(p.doneCh)
	}()

	return nil
}

// Submit enqueues a task. It blocks while the queue is full and returns
// false once the pool has stopped. The read lock is held across the send
// so Stop cannot close the channel under a pending Submit.
func (p *Pool) Submit(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running {
		return false
	}

	p.tasks <- task
	return true
}

// Stop drains already queued tasks, then stops the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.tasks)
	p.mu.Unlock()

	<-p.doneCh

	p.logger.Info("worker pool stopped")
}

// processLoop is the main processing loop for a worker goroutine.
func (p *Pool) processLoop(ctx context.Context, workerID int) {
	logger := p.logger.With("worker_id", workerID)

	for task := range p.tasks {
		select {
		case <-ctx.Done():
			logger.Info("worker context cancelled")
			return
		default:
		}

		p.runTask(ctx, task, logger)
	}
}

// runTask runs one task, logging the outcome.
func (p *Pool) runTask(ctx context.Context, task Task, logger *slog.Logger) {
	start := time.Now()

	if err := task.Fn(ctx); err != nil {
		logger.Error("background task failed",
			"task", task.Name,
			"duration", time.Since(start),
			"error", err,
		)
		return
	}

	logger.Debug("background task completed",
		"task", task.Name,
		"duration", time.Since(start),
	)
}

// Running reports whether the pool is accepting tasks.
func (p *Pool) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}
