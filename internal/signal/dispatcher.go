package signal

import "slices"

// Event is what listeners receive.
type Event struct {
	Target any
	Signal Signal
}

// Has reports whether the event carries any bit of mask.
func (e Event) Has(mask Signal) bool { return e.Signal&mask != 0 }

// Listener receives dispatched events.
type Listener func(Event)

// ListenerID identifies a registration so it can be removed later.
type ListenerID int

// Emitter is implemented by anything that can be listened to.
type Emitter interface {
	Listen(fn Listener) ListenerID
	Unlisten(id ListenerID)
}

// Rule remaps a received signal into the states a consumer invalidates and
// the signal it re-emits.
type Rule func(received Signal) (State, Signal)

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Dispatcher is the invalidation bookkeeping shared by every visual
// component. The zero value supports every state and signal and has no
// target; use Init to narrow them.
type Dispatcher struct {
	target    any
	states    State
	signals   Signal
	narrowed  bool
	pending   State
	suspended int
	held      Signal

	listeners []listenerEntry
	nextID    ListenerID
}

// Init sets the event target and the supported flags.
func (d *Dispatcher) Init(target any, states State, signals Signal) {
	d.target = target
	d.states = states
	d.signals = signals
	d.narrowed = true
}

func (d *Dispatcher) supportedStates() State {
	if !d.narrowed {
		return AllState
	}
	return d.states
}

func (d *Dispatcher) supportedSignals() Signal {
	if !d.narrowed {
		return AllSignal
	}
	return d.signals
}

// Invalidate marks states stale and dispatches signals. If any of the states
// was not already pending, NeedsRedraw is added to the dispatched signals.
// It returns the newly set states.
func (d *Dispatcher) Invalidate(states State, signals Signal) State {
	states &= d.supportedStates()
	effective := states &^ d.pending
	d.pending |= states
	if effective != 0 {
		signals |= NeedsRedraw
	}
	d.DispatchSignal(signals, false)
	return effective
}

// DispatchSignal sends sig to the listeners, or holds it while dispatching
// is suspended unless force is set.
func (d *Dispatcher) DispatchSignal(sig Signal, force bool) {
	sig &= d.supportedSignals()
	if sig == 0 {
		return
	}
	if d.suspended > 0 && !force {
		d.held |= sig
		return
	}
	d.emit(sig)
}

func (d *Dispatcher) emit(sig Signal) {
	if len(d.listeners) == 0 {
		return
	}
	ev := Event{Target: d.target, Signal: sig}
	snapshot := append([]listenerEntry(nil), d.listeners...)
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Suspend defers signal dispatching until the matching Resume. Calls nest.
func (d *Dispatcher) Suspend() { d.suspended++ }

// Resume undoes one Suspend. When the outermost suspension ends, the held
// signals are dispatched once if alsoDispatch is set and dropped otherwise.
// Pending states are never touched.
func (d *Dispatcher) Resume(alsoDispatch bool) {
	if d.suspended == 0 {
		return
	}
	d.suspended--
	if d.suspended > 0 {
		return
	}
	held := d.held
	d.held = 0
	if alsoDispatch && held != 0 {
		d.emit(held)
	}
}

// Suspended reports whether dispatching is currently deferred.
func (d *Dispatcher) Suspended() bool { return d.suspended > 0 }

// HasInvalidationState reports whether any bit of mask is pending.
func (d *Dispatcher) HasInvalidationState(mask State) bool { return d.pending&mask != 0 }

// InvalidationState returns all pending states.
func (d *Dispatcher) InvalidationState() State { return d.pending }

// IsConsistent reports whether nothing is pending.
func (d *Dispatcher) IsConsistent() bool { return d.pending == 0 }

// MarkConsistent clears the bits of mask. Only the owning component's draw
// routine calls it.
func (d *Dispatcher) MarkConsistent(mask State) { d.pending &^= mask }

// Listen registers fn and returns an id for Unlisten.
func (d *Dispatcher) Listen(fn Listener) ListenerID {
	d.nextID++
	d.listeners = append(d.listeners, listenerEntry{id: d.nextID, fn: fn})
	return d.nextID
}

// Unlisten removes a registration. Unknown ids are ignored.
func (d *Dispatcher) Unlisten(id ListenerID) {
	for i, l := range d.listeners {
		if l.id == id {
			d.listeners = slices.Delete(d.listeners, i, i+1)
			return
		}
	}
}

// UnlistenAll drops every registration.
func (d *Dispatcher) UnlistenAll() { d.listeners = nil }

// ListenerCount returns the number of registrations.
func (d *Dispatcher) ListenerCount() int { return len(d.listeners) }

// Forward listens to src and applies rule to every event, invalidating d with
// the resulting states and signal.
func (d *Dispatcher) Forward(src Emitter, rule Rule) ListenerID {
	return src.Listen(func(ev Event) {
		st, sig := rule(ev.Signal)
		if st != 0 || sig != 0 {
			d.Invalidate(st, sig)
		}
	})
}
