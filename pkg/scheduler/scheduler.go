// Package scheduler runs submitted work on a bounded pool of workers. Callers
// get a Future carrying the result channel and a cancellation handle.
package scheduler

import (
	"context"
	"fmt"
	"sync"
)

// Work is a unit of cancellable work.
type Work[T any] func(ctx context.Context) (T, error)

// Result carries a work outcome.
type Result[T any] struct {
	Data T
	Err  error
}

// Future exposes the result channel of a submitted work item and lets the
// caller cancel it.
type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	return &Future[T]{input: input, cancel: cancel}
}

func (f *Future[T]) C() chan T {
	return f.input
}

func (f *Future[T]) Stop() {
	f.cancel()
}

type request struct {
	fn  Work[any]
	c   chan Result[any]
	ctx context.Context
}

// Scheduler dispatches submitted work to at most nbWorkers concurrent
// goroutines, in submission order.
type Scheduler struct {
	work       chan request
	slots      chan struct{}
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	closed     chan struct{}
	once       sync.Once
}

func NewScheduler(nbWorkers int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		work:       make(chan request),
		slots:      make(chan struct{}, nbWorkers),
		mainCtx:    ctx,
		mainCancel: cancel,
		closed:     make(chan struct{}),
	}
	go s.run()
	return s
}

// AddWork submits a work item. The returned future receives exactly one
// result; when the scheduler is closing the result carries context.Canceled.
func (s *Scheduler) AddWork(w Work[any]) *Future[Result[any]] {
	c := make(chan Result[any], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)

	select {
	case <-s.mainCtx.Done():
		c <- Result[any]{Err: context.Canceled}
	case s.work <- request{fn: w, c: c, ctx: ctx}:
	}

	return NewFuture(c, cancel)
}

// Close cancels pending contexts and waits for running work to finish.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.mainCancel()
		<-s.closed
		s.wg.Wait()
	})
}

func (s *Scheduler) run() {
	defer close(s.closed)
	for {
		select {
		case <-s.mainCtx.Done():
			return
		case r := <-s.work:
			select {
			case <-s.mainCtx.Done():
				r.c <- Result[any]{Err: context.Canceled}
				return
			case s.slots <- struct{}{}:
			}
			s.wg.Add(1)
			go s.execute(r)
		}
	}
}

func (s *Scheduler) execute(r request) {
	defer func() {
		if rec := recover(); rec != nil {
			r.c <- Result[any]{Err: fmt.Errorf("worker panicked: %v", rec)}
		}
		<-s.slots
		s.wg.Done()
	}()

	v, err := r.fn(r.ctx)
	r.c <- Result[any]{Data: v, Err: err}
}
