// Package stream provides a minimal multi-subscriber broadcast primitive,
// used by UI observers of parameter changes.
//
// An Emitter and its paired Stream are created together with New. The
// Stream holds only a reference back to the Emitter; subscribing through a
// Stream whose Emitter has been closed is a no-op that returns an unbound
// Token.
package stream

import "sync"

// Token is returned by Subscribe. A callback stays live until its Token is
// passed to Emitter.Release; dropping a Token (letting it go out of scope)
// does not unsubscribe. A callback whose Token has been released is swept
// out of the Emitter lazily, on the next Emit.
type Token struct {
	id int64
}

// Stream is the read side of a broadcast channel: it can only subscribe,
// never emit.
type Stream[Args any] struct {
	emitter *Emitter[Args]
}

// Emitter is the write side of a broadcast channel.
type Emitter[Args any] struct {
	mu          sync.Mutex
	nextID      int64
	subscribers map[int64]func(Args)
	released    map[int64]bool
	closed      bool
}

// New creates a paired Stream and Emitter. Subscribing through the Stream
// delivers to callbacks when Emit is called on the Emitter.
func New[Args any]() (*Stream[Args], *Emitter[Args]) {
	e := &Emitter[Args]{
		subscribers: make(map[int64]func(Args)),
		released:    make(map[int64]bool),
	}
	return &Stream[Args]{emitter: e}, e
}

// Subscribe registers callback and returns an owning Token. If the
// Emitter has been closed this is a no-op: the returned Token is unbound
// and Release on it does nothing.
func (s *Stream[Args]) Subscribe(callback func(Args)) *Token {
	e := s.emitter
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return &Token{id: -1}
	}

	id := e.nextID
	e.nextID++
	e.subscribers[id] = callback

	return &Token{id: id}
}

// Release unsubscribes the callback associated with tok. Safe to call more
// than once; safe to call concurrently with Emit.
func (e *Emitter[Args]) Release(tok *Token) {
	if tok == nil || tok.id < 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.released[tok.id] = true
}

// Emit invokes every live callback once, in unspecified order. Callbacks
// whose tokens have been released are removed during this sweep. Emit must
// not be called concurrently with itself on the same Emitter, and a
// callback must not call Subscribe or Emit on the same Emitter (undefined
// behavior, per the contract this type implements).
func (e *Emitter[Args]) Emit(args Args) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	for id := range e.released {
		delete(e.subscribers, id)
		delete(e.released, id)
	}

	callbacks := make([]func(Args), 0, len(e.subscribers))
	for _, cb := range e.subscribers {
		callbacks = append(callbacks, cb)
	}
	e.mu.Unlock()

	for _, cb := range callbacks {
		cb(args)
	}
}

// Close marks the emitter dead: Emit becomes a no-op and any further
// Subscribe on the paired Stream returns an unbound Token. Close does not
// block on in-flight callbacks; it only prevents future emission. This
// supplements the upstream contract's implicit "emitter gone" behavior with
// an explicit trigger, grounded on the original implementation's practice
// of tearing the emitter down deterministically from its owner.
func (e *Emitter[Args]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.subscribers = nil
	e.released = nil
}
