package gateway

import (
	"context"
	"sync"

	"github.com/dmateos82/tunecase/internal/constants"
	"github.com/dmateos82/tunecase/internal/logger"
)

// Task is one deferred gateway write.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Outbox forwards writes to the gateway from a single background goroutine.
// Submission never blocks playback: a full queue drops the task, and a
// failed task is logged and forgotten, never retried.
type Outbox struct {
	tasks  chan Task
	logger *logger.Logger

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewOutbox(log *logger.Logger) *Outbox {
	o := &Outbox{
		tasks:  make(chan Task, constants.OutboxQueueSize),
		logger: log.WithComponent("outbox"),
		done:   make(chan struct{}),
	}
	o.wg.Add(1)
	go o.run()
	return o
}

// Submit enqueues a task. It reports whether the task was accepted.
func (o *Outbox) Submit(task Task) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.tasks <- task:
		return true
	default:
		o.logger.Warn("Outbox queue full, dropping task", "task", task.Name)
		return false
	}
}

func (o *Outbox) run() {
	defer o.wg.Done()
	for {
		select {
		case <-o.done:
			// Drain what is already queued before shutting down.
			for {
				select {
				case task := <-o.tasks:
					o.execute(task)
				default:
					return
				}
			}
		case task := <-o.tasks:
			o.execute(task)
		}
	}
}

func (o *Outbox) execute(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.OutboxTaskTimeout)
	defer cancel()
	if err := task.Run(ctx); err != nil {
		o.logger.Warn("Outbox task failed", "task", task.Name, "error", err)
	}
}

// Close stops accepting tasks, drains the queue and waits for the worker.
func (o *Outbox) Close() {
	o.stopOnce.Do(func() {
		close(o.done)
	})
	o.wg.Wait()
}
