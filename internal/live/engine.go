// ABOUTME: Reactive query engine that re-runs subscriptions after matching writes.
// ABOUTME: Writers publish changed keys; subscriptions whose read-set matches are marked dirty.
package live

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// watcher is the type-erased side of a subscription the engine notifies.
type watcher interface {
	notify(changed []Key, certain bool)
	stop()
}

// Engine tracks active subscriptions. The zero value is not usable; use NewEngine.
type Engine struct {
	mu     sync.Mutex
	subs   map[uint64]watcher
	nextID uint64
	closed bool
	logger *log.Logger
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		subs:   make(map[uint64]watcher),
		logger: logger,
	}
}

// Publish tells every subscription about a committed write. Callers publish
// in commit order; this never blocks on subscribers.
func (e *Engine) Publish(changed []Key) {
	if len(changed) == 0 {
		return
	}
	e.notifyAll(changed, true)
}

// Invalidate asks matching subscriptions to re-evaluate when the caller only
// knows that something may have changed. Such a re-evaluation is delivered
// only if its result differs from the last one delivered.
func (e *Engine) Invalidate(changed []Key) {
	if len(changed) == 0 {
		return
	}
	e.notifyAll(changed, false)
}

func (e *Engine) notifyAll(changed []Key, certain bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, w := range e.subs {
		w.notify(changed, certain)
	}
}

// Len returns the number of active subscriptions.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// Close cancels every subscription and rejects new ones.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	subs := make([]watcher, 0, len(e.subs))
	for _, w := range e.subs {
		subs = append(subs, w)
	}
	e.mu.Unlock()

	for _, w := range subs {
		w.stop()
	}
}

func (e *Engine) register(w watcher) (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, false
	}
	e.nextID++
	e.subs[e.nextID] = w
	return e.nextID, true
}

func (e *Engine) unregister(id uint64) {
	e.mu.Lock()
	delete(e.subs, id)
	e.mu.Unlock()
}
