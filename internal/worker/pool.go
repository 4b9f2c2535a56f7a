// Package worker runs queued pipeline jobs on a bounded pool.
package worker

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// Job is a unit of work executed by the pool.
type Job interface {
	ID() string
	Execute() error
}

// ErrQueueFull is returned when a job cannot be accepted without blocking.
var ErrQueueFull = errors.New("job queue full")

// Dispatcher fans queued jobs out to a fixed set of workers. Each pipeline
// run executes on exactly one worker goroutine, keeping the run itself
// strictly sequential while allowing concurrent runs from multiple users.
type Dispatcher struct {
	log      *logrus.Logger
	jobQueue chan Job
	workers  int
	wg       sync.WaitGroup
	once     sync.Once
}

// NewDispatcher creates a dispatcher with the given worker count and queue
// capacity.
func NewDispatcher(workers, queueSize int, log *logrus.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		log:      log,
		jobQueue: make(chan Job, queueSize),
		workers:  workers,
	}
}

// Run starts the worker goroutines. It returns immediately.
func (d *Dispatcher) Run() {
	d.log.WithField("workers", d.workers).Info("Starting job dispatcher")
	for i := 1; i <= d.workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	for job := range d.jobQueue {
		log := d.log.WithFields(logrus.Fields{"worker": id, "job": job.ID()})
		log.Info("Job started")
		if err := job.Execute(); err != nil {
			log.WithError(err).Error("Job failed")
			continue
		}
		log.Info("Job finished")
	}
}

// Submit enqueues a job without blocking. Callers must handle ErrQueueFull.
func (d *Dispatcher) Submit(job Job) error {
	select {
	case d.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight jobs to finish. Safe to call
// more than once.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		close(d.jobQueue)
	})
	d.wg.Wait()
	d.log.Info("Job dispatcher stopped")
}
