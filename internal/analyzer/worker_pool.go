package analyzer

import (
	"runtime"
	"sync"
)

// WorkerPool runs analysis unit jobs concurrently. Units are isolated
// from each other, so a run submits each enabled unit as one job.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once
}

// NewWorkerPool creates a pool with the given number of workers,
// defaulting to GOMAXPROCS-equivalent parallelism.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Safe to call more than once.
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
	}
}

// Submit enqueues a job, blocking when the queue is full.
func (wp *WorkerPool) Submit(job func()) {
	wp.jobQueue <- job
}

// Close shuts the pool down. Submitted jobs still drain.
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
}
