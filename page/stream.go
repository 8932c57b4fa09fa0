package page

import (
	"context"
	"sync"
)

// Stream keeps last emitted value and fans every emission out to all
// subscriptions. Emit never blocks and never coalesces: each subscription
// receives every value in emission order. Zero value is ready to use.
type Stream[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[*Subscription[T]]struct{}
}

// Load returns last emitted value.
func (s *Stream[T]) Load() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Emit stores value and queues it for every subscription.
func (s *Stream[T]) Emit(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	for sub := range s.subs {
		sub.push(v)
	}
}

// Subscribe returns new subscription seeded with current value. Nothing is
// delivered until subscription is consumed.
func (s *Stream[T]) Subscribe() *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription[T]{
		stream: s,
		wake:   make(chan struct{}, 1),
		idle:   make(chan struct{}),
	}
	sub.queue = append(sub.queue, s.value)
	if s.subs == nil {
		s.subs = make(map[*Subscription[T]]struct{})
	}
	s.subs[sub] = struct{}{}
	return sub
}

// Subscribers returns number of active subscriptions.
func (s *Stream[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscription is unbounded FIFO of stream values with a single consumer.
type Subscription[T any] struct {
	stream *Stream[T]

	mu     sync.Mutex
	queue  []T
	busy   bool
	closed bool
	wake   chan struct{}
	// closed while nothing is queued and handler is not running
	idle chan struct{}
}

func (s *Subscription[T]) push(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if len(s.queue) == 0 && !s.busy {
		s.idle = make(chan struct{})
	}
	s.queue = append(s.queue, v)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Consume delivers queued and future values to fn one at a time, in order,
// until ctx is done or subscription is closed. Returns ctx.Err() in the first
// case and nil in the second. Must not be called concurrently.
func (s *Subscription[T]) Consume(ctx context.Context, fn func(T)) error {
	for {
		v, ok, err := s.next(ctx)
		if err != nil || !ok {
			return err
		}
		fn(v)
		s.done()
	}
}

func (s *Subscription[T]) next(ctx context.Context) (v T, ok bool, err error) {
	s.mu.Lock()
	for len(s.queue) == 0 {
		if s.closed {
			s.mu.Unlock()
			return v, false, nil
		}
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return v, false, ctx.Err()
		case <-s.wake:
		}
		s.mu.Lock()
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return v, false, err
	}
	v = s.queue[0]
	var zero T
	s.queue[0] = zero
	s.queue = s.queue[1:]
	s.busy = true
	s.mu.Unlock()
	return v, true, nil
}

func (s *Subscription[T]) done() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = false
	if len(s.queue) == 0 {
		close(s.idle)
	}
}

// WaitIdle blocks until every value queued so far has been handled.
func (s *Subscription[T]) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	if len(s.queue) == 0 && !s.busy {
		s.mu.Unlock()
		return nil
	}
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-idle:
		return nil
	}
}

// Close detaches subscription from the stream and drops undelivered values.
// Pending Consume returns nil.
func (s *Subscription[T]) Close() {
	s.stream.mu.Lock()
	delete(s.stream.subs, s)
	s.stream.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	if !s.busy {
		select {
		case <-s.idle:
		default:
			close(s.idle)
		}
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
