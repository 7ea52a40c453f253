package cursor

import "github.com/kvrange/rangeset"

// Phase is the logical state of an AsyncCursor, per the state machine
// in the engine's data model: Fresh -> HasCurrent -> ... -> one of
// {Exhausted, Faulted, Disposed}. Disposed is reachable from any
// other phase and is terminal.
type Phase int

const (
	Fresh Phase = iota
	HasCurrent
	Exhausted
	Faulted
	Disposed
)

// FSM is an embeddable helper that tracks an AsyncCursor[T]'s Phase
// and makes the terminal-state latching guarantee ("after End or
// Fault, subsequent Advance calls immediately return the same
// terminal status") mechanical instead of something every cursor
// reimplements.
type FSM[T any] struct {
	phase   Phase
	current T
	err     error
	pending bool
}

// Phase returns the cursor's current logical state.
func (f *FSM[T]) Phase() Phase { return f.phase }

// Begin marks an Advance call as outstanding. Returns
// rangeset.ErrAdvancePending if one is already in flight, and the
// latched terminal (Status, error) if the cursor already reached
// Exhausted/Faulted/Disposed -- in both cases the caller must return
// immediately without touching the transport.
func (f *FSM[T]) Begin() (done bool, status Status, err error) {
	switch f.phase {
	case Exhausted:
		return true, End, nil
	case Faulted:
		return true, Fault, f.err
	case Disposed:
		return true, Fault, rangeset.ErrDisposed
	}
	if f.pending {
		return true, Fault, rangeset.ErrAdvancePending
	}
	f.pending = true
	return false, 0, nil
}

// Advanced transitions to HasCurrent with val as the current value.
func (f *FSM[T]) Advanced(val T) (Status, error) {
	f.pending = false
	f.phase = HasCurrent
	f.current = val
	return Advanced, nil
}

// End transitions to Exhausted, latching End for future Advance calls.
func (f *FSM[T]) End() (Status, error) {
	f.pending = false
	f.phase = Exhausted
	var zero T
	f.current = zero
	return End, nil
}

// Fail transitions to Faulted, latching err for future Advance calls.
func (f *FSM[T]) Fail(err error) (Status, error) {
	f.pending = false
	f.phase = Faulted
	var zero T
	f.current = zero
	f.err = err
	return Fault, err
}

// Current returns the value recorded by the last Advanced call, or
// the zero value outside HasCurrent.
func (f *FSM[T]) Current() T { return f.current }

// Dispose transitions to Disposed. Idempotent: safe to call from any
// phase, any number of times.
func (f *FSM[T]) Dispose() {
	f.pending = false
	f.phase = Disposed
	var zero T
	f.current = zero
}
