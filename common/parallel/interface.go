// Package parallel runs independent tasks on a bounded set of goroutines while handing the
// results back to the caller strictly in task order.
package parallel

import "context"

// Result is the outcome of a single task.
type Result struct {
	Routine int         // Index of the goroutine that executed the task
	Task    int         // Index of the task
	Value   interface{} // Value returned by ParallelDo
	err     error
}

// Interface is implemented by a batch of tasks to run in parallel.
type Interface interface {
	// ParallelDo executes the task with the given index. It is called concurrently.
	ParallelDo(ctx context.Context, routine, task int) (interface{}, error)
	// ParallelCollect receives results in task order. It is never called concurrently.
	ParallelCollect(result *Result) error
}
