// ABOUTME: Typed live subscriptions: evaluate now, then again after each matching write.
// ABOUTME: Cancel is synchronous; once it returns the result channel is closed for good.
package live

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// ErrEngineClosed is reported by subscriptions created on a closed engine.
var ErrEngineClosed = errors.New("live: engine closed")

// EvalFunc computes a query result and the keys it read.
type EvalFunc[T any] func(ctx context.Context) (T, ReadSet, error)

// Subscription delivers fresh results of one query.
type Subscription[T any] struct {
	id     uuid.UUID
	engine *Engine
	slot   uint64
	eval   EvalFunc[T]

	out    chan T
	dirty  chan struct{}
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once

	mu         sync.Mutex
	reads      ReadSet
	evaluating bool
	pending    []Key
	certain    bool // a matching write was published while idle
	err        error

	last      T
	delivered bool
}

// Subscribe starts a subscription. The first result is computed immediately;
// later results follow every write that touches the previous read-set.
// Cancelling ctx cancels the subscription.
func Subscribe[T any](ctx context.Context, e *Engine, eval EvalFunc[T]) *Subscription[T] {
	subCtx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		id:     uuid.New(),
		engine: e,
		eval:   eval,
		out:    make(chan T),
		dirty:  make(chan struct{}, 1),
		done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	slot, ok := e.register(s)
	if !ok {
		s.err = ErrEngineClosed
		cancel()
		close(s.out)
		close(s.done)
		return s
	}
	s.slot = slot
	e.logger.Debug("subscription started", "subscription", s.id)

	go s.run()
	return s
}

// ID returns the subscription's unique id.
func (s *Subscription[T]) ID() uuid.UUID {
	return s.id
}

// Results returns the channel of query results. It is closed when the
// subscription ends.
func (s *Subscription[T]) Results() <-chan T {
	return s.out
}

// Done is closed once the subscription has fully stopped.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err returns the evaluation error that ended the subscription, if any.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Next waits for the next result. It returns false when the subscription has
// ended or ctx is done first.
func (s *Subscription[T]) Next(ctx context.Context) (T, bool) {
	select {
	case v, ok := <-s.out:
		return v, ok
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Cancel stops the subscription and waits for its evaluation loop to exit.
// No result is delivered after Cancel returns. Safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		s.cancel()
	})
	<-s.done
}

func (s *Subscription[T]) stop() {
	s.Cancel()
}

func (s *Subscription[T]) notify(changed []Key, certain bool) {
	s.mu.Lock()
	if s.evaluating {
		s.pending = append(s.pending, changed...)
		s.mu.Unlock()
		return
	}
	match := s.reads.Matches(changed)
	if match && certain {
		s.certain = true
	}
	s.mu.Unlock()

	if match {
		s.markDirty()
	}
}

func (s *Subscription[T]) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) run() {
	defer func() {
		s.engine.unregister(s.slot)
		close(s.out)
		close(s.done)
		s.engine.logger.Debug("subscription stopped", "subscription", s.id)
	}()

	for {
		s.mu.Lock()
		s.evaluating = true
		s.pending = nil
		certain := s.certain || !s.delivered
		s.certain = false
		s.mu.Unlock()

		v, reads, err := s.eval(s.ctx)

		s.mu.Lock()
		s.evaluating = false
		s.reads = reads
		pending := s.pending
		s.pending = nil
		if err != nil && s.ctx.Err() == nil {
			s.err = err
		}
		s.mu.Unlock()

		if err != nil {
			if s.ctx.Err() == nil {
				s.engine.logger.Error("subscription failed", "subscription", s.id, "err", err)
			}
			return
		}

		// A write that landed mid-evaluation may not be in this snapshot, so
		// look again; the recheck is dropped if it reads what was just sent.
		if reads.Matches(pending) {
			s.markDirty()
		}

		if certain || !reflect.DeepEqual(v, s.last) {
			select {
			case s.out <- v:
			case <-s.ctx.Done():
				return
			}
			s.last = v
			s.delivered = true
		}

		select {
		case <-s.dirty:
		case <-s.ctx.Done():
			return
		}
	}
}
