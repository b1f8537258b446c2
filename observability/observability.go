// Package observability implements the event dispatcher (§4.11): a
// mutex-guarded listener registry whose hot path costs a single branch when
// no listener is registered, modeled on the teacher's sse.Manager client
// registry and fan-out broadcast.
package observability

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sqlspec/sqlspec/statement"
)

// DefaultChannelCapacity is the bounded queue size used when a Dispatcher is
// built with New without an explicit capacity.
const DefaultChannelCapacity = 256

// Phase tags the point in a statement's lifecycle an event describes.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseHit
	PhaseMiss
	PhaseComplete
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseHit:
		return "hit"
	case PhaseMiss:
		return "miss"
	case PhaseComplete:
		return "complete"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is the common payload every event type embeds. SQLFingerprint never
// carries raw SQL text unless Unredacted is explicitly set by the caller
// constructing the event.
type Event struct {
	CorrelationID  uuid.UUID
	Driver         string
	OperationKind  statement.OperationKind
	SQLFingerprint uint64
	ParameterCount int
	Duration       time.Duration
	Unredacted     string
}

// StatementCompileEvent reports a processor cache hit or miss.
type StatementCompileEvent struct {
	Event
	Phase Phase
}

// StatementExecuteEvent reports a dispatch call's lifecycle.
type StatementExecuteEvent struct {
	Event
	Phase Phase
	Err   error
}

// PoolEvent, ConnectionEvent, and SessionEvent are placeholders adapters
// built on top of this module can plug into; nothing in core emits them,
// since pooling and connection lifecycle are adapter concerns.
type PoolEvent struct {
	Event
	Phase Phase
}

type ConnectionEvent struct {
	Event
	Phase Phase
}

type SessionEvent struct {
	Event
	Phase Phase
}

// Listener receives every event pushed through a Dispatcher. Implementations
// must not block indefinitely; a slow listener only delays its own queue,
// never the emitting caller, since each listener drains its own goroutine.
type Listener interface {
	OnEvent(any)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(any)

func (f ListenerFunc) OnEvent(e any) { f(e) }

type subscriber struct {
	listener Listener
	queue    chan any
	done     chan struct{}
}

// Dispatcher fans events out to registered listeners over bounded,
// per-listener channels so one slow listener cannot back-pressure another
// or the emitting call. The zero value is not usable; build one with New.
type Dispatcher struct {
	mu       sync.RWMutex
	subs     []*subscriber
	capacity int
}

// New builds a Dispatcher whose per-listener queues hold capacity events
// before Emit starts dropping for that listener. capacity <= 0 uses
// DefaultChannelCapacity.
func New(capacity int) *Dispatcher {
	if capacity <= 0 {
		capacity = DefaultChannelCapacity
	}
	return &Dispatcher{capacity: capacity}
}

// Register adds a listener and starts its drain goroutine. The returned
// func unregisters the listener and stops its goroutine.
func (d *Dispatcher) Register(l Listener) (unregister func()) {
	sub := &subscriber{
		listener: l,
		queue:    make(chan any, d.capacity),
		done:     make(chan struct{}),
	}

	go func() {
		for {
			select {
			case e := <-sub.queue:
				sub.listener.OnEvent(e)
			case <-sub.done:
				return
			}
		}
	}()

	d.mu.Lock()
	d.subs = append(d.subs, sub)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			for i, s := range d.subs {
				if s == sub {
					d.subs = append(d.subs[:i], d.subs[i+1:]...)
					break
				}
			}
			d.mu.Unlock()
			close(sub.done)
		})
	}
}

// Emit pushes e onto every registered listener's queue. With no listeners
// registered this is a single length check and an immediate return, the
// zero-cost disabled path named in §4.11. A listener whose queue is full
// has the event dropped for it rather than blocking the caller.
func (d *Dispatcher) Emit(e any) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.subs) == 0 {
		return
	}
	for _, sub := range d.subs {
		select {
		case sub.queue <- e:
		default:
		}
	}
}

// NewCorrelationID generates a fresh correlation ID for a statement's
// lifecycle events.
func NewCorrelationID() uuid.UUID {
	return uuid.New()
}
