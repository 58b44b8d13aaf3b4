// Package queue defines the contract for enqueuing and consuming match
// settlements awaiting scoring.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/panenka/internal/domain/model"
	"github.com/okian/panenka/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 100000
	defaultBufferSize    = 100000
)

// Settlement is the payload type flowing through the queue.
type Settlement = model.Settlement

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a settlement to the queue.
	// Returns false if the queue is full and the settlement was not enqueued.
	Enqueue(ctx context.Context, s Settlement) bool

	// Dequeue returns a channel that will receive settlements as they
	// become available. The channel closes when the queue is closed.
	Dequeue(ctx context.Context) <-chan Settlement

	// Len returns the current number of queued settlements.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, nothing can be
	// enqueued and the dequeue channel closes once drained.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	settlements chan Settlement
	capacity    int
	bufferSize  int
	mu          sync.RWMutex
	closed      bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.settlements = make(chan Settlement, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a settlement to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Settlement) bool { //nolint:gocritic // hugeParam: Settlement must be passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	if len(q.settlements) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.settlements <- s:
		metrics.RecordQueueEnqueue()
		currentSize := len(q.settlements)
		metrics.UpdateQueueSize(currentSize)
		metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive settlements as they become
// available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Settlement {
	// Wrap the channel to track dequeue metrics
	dequeueChan := make(chan Settlement)
	go func() {
		defer close(dequeueChan)
		for s := range q.settlements {
			select {
			case dequeueChan <- s:
				metrics.RecordQueueDequeue()
				currentSize := len(q.settlements)
				metrics.UpdateQueueSize(currentSize)
				metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued settlements.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.settlements)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.settlements)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
