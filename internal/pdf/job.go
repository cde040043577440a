package pdf

import (
	"context"
	"errors"

	"github.com/kozaktomas/gridsheet/internal/settings"
)

// Result carries the terminal success payload of a render job.
type Result struct {
	Document []byte
	Report   *Report
}

// Job is one asynchronous render run. The progress channel closes when the
// worker stops; exactly one terminal event follows on Done or Err, except
// after cancellation, which ends the run silently.
type Job struct {
	progress chan int
	done     chan Result
	err      chan error
	cancel   context.CancelFunc
	stopped  chan struct{}
}

// StartJob launches a render worker over a snapshot of paths and settings.
func StartJob(ctx context.Context, paths []string, set settings.Grid) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		progress: make(chan int, 128),
		done:     make(chan Result, 1),
		err:      make(chan error, 1),
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}

	snapshot := append([]string(nil), paths...)
	go func() {
		defer close(j.stopped)
		defer cancel()

		doc, report, err := Render(ctx, snapshot, set, func(p int) {
			select {
			case j.progress <- p:
			default: // slow consumer, drop the update
			}
		})
		close(j.progress)

		switch {
		case err == nil:
			j.done <- Result{Document: doc, Report: report}
		case errors.Is(err, context.Canceled):
			// Aborted: no terminal event by contract.
		default:
			j.err <- err
		}
	}()
	return j
}

// Progress streams 0-100 updates and closes when the worker stops.
func (j *Job) Progress() <-chan int { return j.progress }

// Done delivers the terminal success payload, if any.
func (j *Job) Done() <-chan Result { return j.done }

// Err delivers the terminal error, if any.
func (j *Job) Err() <-chan error { return j.err }

// Cancel requests cooperative cancellation and blocks until the worker has
// fully stopped.
func (j *Job) Cancel() {
	j.cancel()
	<-j.stopped
}

// Wait blocks until the worker has stopped, without cancelling it.
func (j *Job) Wait() {
	<-j.stopped
}
