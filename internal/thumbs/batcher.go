package thumbs

import (
	"context"
	"errors"
	"sync"
)

// Batch is one asynchronous thumbnail load. The progress channel closes when
// the worker stops; exactly one terminal event follows on Done or Err,
// except after cancellation, which ends the run silently.
type Batch struct {
	progress chan int
	done     chan []Thumb
	err      chan error
	ctx      context.Context
	cancel   context.CancelFunc
	stopped  chan struct{}
}

func startBatch(ctx context.Context, paths []string) *Batch {
	ctx, cancel := context.WithCancel(ctx)
	b := &Batch{
		progress: make(chan int, 128),
		done:     make(chan []Thumb, 1),
		err:      make(chan error, 1),
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}

	snapshot := append([]string(nil), paths...)
	go func() {
		defer close(b.stopped)
		defer cancel()

		thumbs, err := Load(ctx, snapshot, func(p int) {
			select {
			case b.progress <- p:
			default: // slow consumer, drop the update
			}
		})
		close(b.progress)

		switch {
		case err == nil:
			b.done <- thumbs
		case errors.Is(err, context.Canceled):
			// Aborted: the caller must never see a partial set.
		default:
			b.err <- err
		}
	}()
	return b
}

// Progress streams 0-100 updates and closes when the worker stops.
func (b *Batch) Progress() <-chan int { return b.progress }

// Done delivers the completed thumbnail set, if any.
func (b *Batch) Done() <-chan []Thumb { return b.done }

// Err delivers the terminal error, if any.
func (b *Batch) Err() <-chan error { return b.err }

// Cancel requests cooperative cancellation and blocks until the worker has
// fully stopped.
func (b *Batch) Cancel() {
	b.cancel()
	<-b.stopped
}

// Wait blocks until the worker has stopped, without cancelling it.
func (b *Batch) Wait() {
	<-b.stopped
}

// Stopped is closed once the worker has fully stopped. A stopped batch with
// nothing on Done or Err was cancelled.
func (b *Batch) Stopped() <-chan struct{} {
	return b.stopped
}

// Cancelled reports whether cancellation has been requested for this batch.
func (b *Batch) Cancelled() bool {
	return b.ctx.Err() != nil
}

// Batcher serializes thumbnail batches. At most one batch is active per
// instance; starting a new one cancels the active batch and waits for it to
// fully stop, so two workers never race to report results for the same
// logical preview.
type Batcher struct {
	mu     sync.Mutex
	active *Batch
}

// Start cancels any active batch, waits for it to stop, and launches a new
// one over a snapshot of paths.
func (s *Batcher) Start(ctx context.Context, paths []string) *Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Cancel()
	}
	s.active = startBatch(ctx, paths)
	return s.active
}

// Stop cancels the active batch, if any, and waits for it to stop.
func (s *Batcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Cancel()
		s.active = nil
	}
}
