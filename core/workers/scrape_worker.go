// ABOUTME: Scrape worker pool for background execution of scrape jobs
// ABOUTME: Provides managed fire-and-forget job handoff with bounded concurrency

package workers

import (
	"context"
	"sync"

	"precios-api/core/domain"
)

// JobRunner consumes a scrape job it exclusively owns.
type JobRunner interface {
	Run(job *domain.ScrapeJob)
}

// ScrapeWorker manages background scrape job execution on a bounded pool.
// Jobs are never run on detached goroutines: every submission routes through
// the pool so completion (and tracker release) is always reached.
type ScrapeWorker struct {
	runner     JobRunner
	jobQueue   chan *domain.ScrapeJob
	maxWorkers int
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
}

// WorkerConfig holds configuration for the scrape worker pool
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers: 4,
		QueueSize:  32,
	}
}

// NewScrapeWorker creates a new scrape worker pool
func NewScrapeWorker(runner JobRunner, config WorkerConfig) *ScrapeWorker {
	ctx, cancel := context.WithCancel(context.Background())

	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultWorkerConfig().MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultWorkerConfig().QueueSize
	}

	return &ScrapeWorker{
		runner:     runner,
		jobQueue:   make(chan *domain.ScrapeJob, config.QueueSize),
		maxWorkers: config.MaxWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the worker pool
func (sw *ScrapeWorker) Start() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.running {
		return nil
	}

	for i := 0; i < sw.maxWorkers; i++ {
		sw.wg.Add(1)
		go sw.run()
	}

	sw.running = true
	return nil
}

// Stop stops the worker pool gracefully, draining queued jobs first.
func (sw *ScrapeWorker) Stop() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.running {
		return nil
	}

	close(sw.jobQueue)
	sw.wg.Wait()
	sw.cancel()

	sw.running = false
	return nil
}

// Submit queues a job for background execution. It never blocks the caller:
// a full queue is reported immediately so the submitter can release the
// job's tracker slot. The lock is held across the send so a concurrent Stop
// cannot close the queue between the running check and the enqueue.
func (sw *ScrapeWorker) Submit(job *domain.ScrapeJob) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.running {
		return ErrWorkerNotRunning
	}

	select {
	case sw.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// run is the main loop for each worker
func (sw *ScrapeWorker) run() {
	defer sw.wg.Done()

	for {
		select {
		case job, ok := <-sw.jobQueue:
			if !ok {
				return
			}
			sw.runner.Run(job)
		case <-sw.ctx.Done():
			return
		}
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
