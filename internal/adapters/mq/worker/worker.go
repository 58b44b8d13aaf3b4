// Package worker defines worker contracts for asynchronous settlement processing.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/panenka/internal/domain/analysis"
	"github.com/okian/panenka/internal/domain/model"
	"github.com/okian/panenka/pkg/logger"
	"github.com/okian/panenka/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Settlement abstracts what workers read off the queue.
// Using the model.Settlement type for consistency.
type Settlement = model.Settlement

// Analyzer scores a full match and produces the per-cluster report.
type Analyzer interface {
	Report(in analysis.Input) analysis.Report
}

// Settler folds a match report into persistent user state. Implementations
// must serialize concurrent calls for the same user.
type Settler interface {
	Settle(ctx context.Context, s Settlement, report analysis.Report) error
}

// Queue defines how workers receive settlements.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Settlement
}

// Worker processes settlements and applies their outcomes using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining settlements before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing settlements.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	settler  Settler
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, analyzer Analyzer, settler Settler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		analyzer: analyzer,
		settler:  settler,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	settlementChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-settlementChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processSettlement(ctx, s); err != nil {
				w.logger.Error(ctx, "error processing settlement", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processSettlement handles a single settlement end to end: analyze the
// match, then hand the report to the settler for folding into user state.
func (w *InMemoryWorker) processSettlement(ctx context.Context, s Settlement) error { //nolint:gocritic // hugeParam: Settlement must be passed by value for channel semantics
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
		metrics.RecordSettlementLatency(float64(latency))
	}()

	report := w.analyzer.Report(analysis.Input{
		Predictions: s.Predictions,
		Results:     s.Results,
		Training:    s.Training,
		Focused:     s.Focused,
	})
	metrics.RecordMatchAnalyzed()
	metrics.RecordPredictionScored(len(report.Scores))
	metrics.ObservePredictionPoints(report.TotalPoints)

	if err := w.settler.Settle(ctx, s, report); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordPipelineError()
		metrics.RecordErrorByComponent("worker", "settle_error")
		w.logger.Error(ctx, "settling failed",
			logger.String("eventID", s.EventID),
			logger.String("userID", s.UserID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to settle event %s: %w", s.EventID, err)
	}

	metrics.RecordSettlementProcessed()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	analyzer Analyzer
	settler  Settler

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Metrics tracking
	processedCount    int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, analyzer Analyzer, settler Settler) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		analyzer:          analyzer,
		settler:           settler,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			analyzer,
			settler,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	// Start metrics updater
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		messagesPerSecond := float64(p.processedCount) / timeDiff
		metrics.UpdateWorkerMessagesPerSecond(messagesPerSecond)
	}

	// Reset counters
	p.processedCount = 0
	p.lastProcessedTime = now
}

// RecordProcessedMessage increments the processed message count.
func (p *Pool) RecordProcessedMessage() {
	p.processedCount++
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	// Signal shutdown to all workers
	close(p.shutdown)

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new settlements
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Signal shutdown to all workers
	close(p.shutdown)

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
