package parallel

import (
	"context"
	"runtime"
	"sync"
)

// SerialOption configures Serial.
type SerialOption struct {
	Routines int // Number of goroutines, defaults to GOMAXPROCS
	Window   int // Max number of tasks dispatched ahead of the next collected one, 0 to disable
}

// Normalize bounds the option against the number of tasks so that
// 0 < routines <= window <= tasks when a window is configured.
func (opt *SerialOption) Normalize(tasks int) {
	if opt.Routines <= 0 {
		opt.Routines = runtime.GOMAXPROCS(0)
	}

	if opt.Routines > tasks {
		opt.Routines = tasks
	}

	if opt.Window <= 0 {
		opt.Window = 0
		return
	}

	if opt.Window < opt.Routines {
		opt.Window = opt.Routines
	}

	if opt.Window > tasks {
		opt.Window = tasks
	}
}

// Serial executes tasks in parallel and collects the results in sequence. It returns the first
// error reported by either ParallelDo or ParallelCollect, after all goroutines have terminated.
func Serial(ctx context.Context, parallelizable Interface, tasks int, option ...SerialOption) error {
	if tasks <= 0 {
		return nil
	}

	var opt SerialOption
	if len(option) > 0 {
		opt = option[0]
	}
	opt.Normalize(tasks)

	// buffered channels never block workers, since at most channelLen tasks are in flight
	channelLen := max(opt.Routines, opt.Window)
	taskCh := make(chan int, channelLen)
	resultCh := make(chan *Result, channelLen)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	for i := 0; i < opt.Routines; i++ {
		wg.Add(1)
		go work(ctx, i, parallelizable, taskCh, resultCh, &wg)
	}

	err := collect(ctx, parallelizable, taskCh, resultCh, tasks, channelLen, opt.Window > 0)

	// notify all routines to terminate and wait for them
	cancel()
	wg.Wait()

	close(taskCh)
	close(resultCh)

	return err
}

func work(ctx context.Context, routine int, parallelizable Interface, taskCh <-chan int, resultCh chan<- *Result, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-taskCh:
			val, err := parallelizable.ParallelDo(ctx, routine, task)
			resultCh <- &Result{routine, task, val, err}
			if err != nil {
				return
			}
		}
	}
}

func collect(ctx context.Context, parallelizable Interface, taskCh chan<- int, resultCh <-chan *Result, tasks, channelLen int, hasWindow bool) error {
	// fill the window (or one task per routine) first
	dispatched := 0
	for ; dispatched < channelLen && dispatched < tasks; dispatched++ {
		taskCh <- dispatched
	}

	next := 0
	pending := map[int]*Result{}

	for next < tasks {
		var result *Result
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result = <-resultCh:
		}

		if result.err != nil {
			return result.err
		}

		pending[result.Task] = result

		if !hasWindow && dispatched < tasks {
			taskCh <- dispatched
			dispatched++
		}

		// handle completed tasks in sequence
		for pending[next] != nil {
			if err := parallelizable.ParallelCollect(pending[next]); err != nil {
				return err
			}

			delete(pending, next)
			next++

			// move window forward
			if hasWindow && dispatched < tasks {
				taskCh <- dispatched
				dispatched++
			}
		}
	}

	return nil
}
