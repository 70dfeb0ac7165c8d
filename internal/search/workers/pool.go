package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobsearch-api/internal/config"
	"jobsearch-api/internal/logging"
	"jobsearch-api/internal/logging/types"
	"jobsearch-api/internal/source"
	"jobsearch-api/pkg/utils"
)

// JobResult represents the outcome of one upstream search executed by a worker
type JobResult struct {
	Result    *source.Result
	Error     error
	RequestID string
	Duration  time.Duration
}

// SearchJob represents one upstream search queued for the pool
type SearchJob struct {
	ID         string
	Params     source.Params
	ResultChan chan JobResult
	Context    context.Context
	CreatedAt  time.Time
}

// ErrSubmitTimeout is returned when the wait for a queued job exceeds the
// caller's deadline. The worker keeps running the abandoned search to
// completion; the pool is sized for that leak.
var ErrSubmitTimeout = fmt.Errorf("search processing timed out")

// ErrQueueFull is returned when a job cannot be admitted to the queue within
// the configured queue timeout, meaning every worker and queue slot is
// occupied.
var ErrQueueFull = fmt.Errorf("job queue is full, request timed out")

// WorkerPool runs the blocking upstream search calls on a fixed set of
// goroutines so slow boards never stall the request path.
type WorkerPool struct {
	config   *config.Config
	provider source.Provider
	jobQueue chan SearchJob
	limiter  *SiteLimiter
	logger   types.Logger
	wg       sync.WaitGroup
	mu       sync.RWMutex
	running  bool
	statsMu  sync.RWMutex
	stats    PoolStats
}

// PoolStats tracks worker pool statistics
type PoolStats struct {
	JobsQueued            int64         `json:"jobs_queued"`
	JobsProcessed         int64         `json:"jobs_processed"`
	JobsSuccessful        int64         `json:"jobs_successful"`
	JobsFailed            int64         `json:"jobs_failed"`
	TotalProcessingTime   time.Duration `json:"-"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
}

// NewWorkerPool creates a new worker pool instance
func NewWorkerPool(cfg *config.Config, provider source.Provider) *WorkerPool {
	return &WorkerPool{
		config:   cfg,
		provider: provider,
		jobQueue: make(chan SearchJob, cfg.Workers.QueueSize),
		limiter:  NewSiteLimiter(cfg),
		logger:   logging.GetGlobalLogger(),
	}
}

// Start starts the worker goroutines
func (wp *WorkerPool) Start() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		return fmt.Errorf("worker pool is already running")
	}

	for i := 1; i <= wp.config.Workers.PoolSize; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	wp.running = true
	wp.logger.Info("Worker pool started", map[string]any{
		"pool_size":  wp.config.Workers.PoolSize,
		"queue_size": wp.config.Workers.QueueSize,
	})
	return nil
}

// Stop stops the worker pool gracefully. Queued jobs are drained before the
// workers exit.
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	if !wp.running {
		wp.mu.Unlock()
		return nil
	}
	wp.running = false
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.logger.Info("Worker pool stopped")
	return nil
}

// IsRunning returns true if the worker pool is running
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}

// Submit queues one upstream search and waits for its result, bounded by
// timeout. A timeout abandons the wait only; the in-flight upstream call is
// not cancelled and its worker stays occupied until it returns.
func (wp *WorkerPool) Submit(ctx context.Context, params source.Params, timeout time.Duration) (*JobResult, error) {
	if !wp.IsRunning() {
		return nil, fmt.Errorf("worker pool is not running")
	}

	for _, site := range params.SiteNames {
		if !wp.limiter.Allow(site) {
			return nil, utils.NewRateLimitError(site, 300)
		}
	}

	job := SearchJob{
		ID:         utils.GenerateRequestID(),
		Params:     params,
		ResultChan: make(chan JobResult, 1),
		Context:    ctx,
		CreatedAt:  time.Now(),
	}

	wp.statsMu.Lock()
	wp.stats.JobsQueued++
	wp.statsMu.Unlock()

	select {
	case wp.jobQueue <- job:
		wp.logger.Debug("Search job queued", map[string]any{
			"job_id": job.ID,
			"sites":  params.SiteNames,
		})
	case <-time.After(wp.config.Workers.QueueTimeout.Std()):
		return nil, ErrQueueFull
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case result := <-job.ResultChan:
		return &result, nil
	case <-time.After(timeout):
		return nil, ErrSubmitTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetStats returns current pool statistics
func (wp *WorkerPool) GetStats() PoolStats {
	wp.statsMu.RLock()
	stats := wp.stats
	wp.statsMu.RUnlock()
	if stats.JobsProcessed > 0 {
		stats.AverageProcessingTime = stats.TotalProcessingTime / time.Duration(stats.JobsProcessed)
	}
	return stats
}

// SiteStats returns per-site limiter counters
func (wp *WorkerPool) SiteStats() map[string]map[string]int64 {
	return wp.limiter.Stats()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		start := time.Now()

		result, err := wp.provider.Search(job.Context, job.Params)
		duration := time.Since(start)

		wp.statsMu.Lock()
		wp.stats.JobsProcessed++
		wp.stats.TotalProcessingTime += duration
		if err != nil {
			wp.stats.JobsFailed++
		} else {
			wp.stats.JobsSuccessful++
		}
		wp.statsMu.Unlock()

		// Non-blocking send: the submitter may have timed out and left
		select {
		case job.ResultChan <- JobResult{
			Result:    result,
			Error:     err,
			RequestID: job.ID,
			Duration:  duration,
		}:
			wp.logger.Debug("Search job completed", map[string]any{
				"job_id":          job.ID,
				"worker_id":       id,
				"processing_time": duration.String(),
				"success":         err == nil,
			})
		default:
			wp.logger.Debug("Result dropped, submitter abandoned the wait", map[string]any{
				"job_id":    job.ID,
				"worker_id": id,
			})
		}
	}
}
