// Package pool provides a bounded worker pool shared by the tree walker and
// the finders. Worker count and queue depth are fixed at construction; the
// tuner package computes suitable values from the host topology.
package pool

import (
	"errors"
	"runtime"
	"sync"
)

// DefaultWorkerCap is the ceiling applied to the detected core count when no
// explicit worker count is configured.
const DefaultWorkerCap = 16

// ErrClosed is returned by Submit once shutdown has begun.
var ErrClosed = errors.New("pool is shut down")

// ErrNilTask is returned when a nil task is submitted.
var ErrNilTask = errors.New("nil task")

// Task is a unit of work executed by the pool. Tasks that can block should
// capture a context and honor its cancellation; the pool itself only
// guarantees best-effort cancellation by ceasing to hand out new work.
type Task func()

// Config configures a pool.
type Config struct {
	// Workers is the number of concurrent workers. Zero or negative
	// selects min(detected cores, DefaultWorkerCap).
	Workers int

	// QueueSize is the task queue depth. Zero or negative selects a
	// multiple of the worker count. Submissions block while the queue is
	// full, which is the backpressure mechanism.
	QueueSize int
}

// Pool is a fixed-size worker pool with a bounded queue.
//
// Submit blocks while the queue is full. Shutdown stops intake, waits for
// every accepted task to finish, and then returns. A Pool must not be reused
// after Shutdown.
type Pool struct {
	tasks   chan Task
	quit    chan struct{}
	workers sync.WaitGroup
	pending sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	size int
}

// New creates a pool and starts its workers.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > DefaultWorkerCap {
			workers = DefaultWorkerCap
		}
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = workers * 64
	}

	p := &Pool{
		tasks: make(chan Task, queueSize),
		quit:  make(chan struct{}),
		size:  workers,
	}
	for i := 0; i < workers; i++ {
		p.workers.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for task := range p.tasks {
		task()
		p.pending.Done()
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.size
}

// Submit queues a task for execution. It blocks while the queue is full and
// returns ErrClosed once shutdown has begun, including when shutdown begins
// while the caller is blocked.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	p.pending.Add(1)
	p.mu.RUnlock()

	select {
	case p.tasks <- task:
		return nil
	case <-p.quit:
		p.pending.Done()
		return ErrClosed
	}
}

// TrySubmit queues a task only if the pool is open and the queue has room.
// It never blocks. Recursive submitters use this and fall back to running
// the task inline, which keeps bounded queues deadlock-free.
func (p *Pool) TrySubmit(task Task) bool {
	if task == nil {
		return false
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return false
	}
	p.pending.Add(1)
	p.mu.RUnlock()

	select {
	case p.tasks <- task:
		return true
	default:
		p.pending.Done()
		return false
	}
}

// Shutdown stops accepting new tasks, runs everything already accepted to
// completion, and waits for the workers to exit. It is safe to call more
// than once; every call waits for the drain to finish.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.workers.Wait()
		return
	}
	p.closed = true
	close(p.quit)
	p.mu.Unlock()

	// All accepted tasks hold a pending count until they finish running,
	// so after this wait the queue is empty and nothing is in flight.
	p.pending.Wait()
	close(p.tasks)
	p.workers.Wait()
}
