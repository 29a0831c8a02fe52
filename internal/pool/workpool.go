package pool

import (
	"context"
	"sync"
)

// Task is one unit of work executed by a WorkPool.
type Task func(ctx context.Context) error

// WorkPool executes a finite, pre-queued sequence of tasks with a bounded
// number concurrently in flight. Tasks are started in FIFO order; completion
// order is unspecified. The first task failure stops dispatch: queued tasks
// never start, already-running tasks finish but their results are discarded.
type WorkPool struct {
	concurrency int
	tasks       []Task
}

// NewWorkPool creates a pool that keeps at most concurrency tasks in flight.
func NewWorkPool(concurrency int) *WorkPool {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &WorkPool{
		concurrency: concurrency,
	}
}

// Add queues a task. All tasks must be queued before Run is called.
func (p *WorkPool) Add(task Task) {
	p.tasks = append(p.tasks, task)
}

// Len returns the number of queued tasks.
func (p *WorkPool) Len() int {
	return len(p.tasks)
}

// Run dispatches the queued tasks and returns once every started task has
// completed. It returns the first task error, or the context error if the
// context was cancelled before all tasks could be dispatched.
func (p *WorkPool) Run(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, p.concurrency)

	for _, task := range p.tasks {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		}

		wg.Add(1)
		go func(run Task) {
			defer func() {
				<-sem
				wg.Done()
			}()
			if err := run(ctx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(task)
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
