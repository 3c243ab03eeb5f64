package sim

// Signal is a single-writer observable cell with a value-changed event. It is
// the primitive behind the producer's completion flag: the writer flips the
// value once, readers either poll Read or park on WaitChanged.
type Signal[T comparable] struct {
	changed *Event
	value   T
}

func NewSignal[T comparable](s *Scheduler, initial T) *Signal[T] {
	return &Signal[T]{changed: s.NewEvent(), value: initial}
}

// Read returns the current value without suspending.
func (sig *Signal[T]) Read() T { return sig.value }

// Write stores v. Tasks parked on WaitChanged are woken only if the value
// actually changed.
func (sig *Signal[T]) Write(v T) {
	if v == sig.value {
		return
	}
	sig.value = v
	sig.changed.Notify()
}

// WaitChanged suspends the calling task until the next value change.
func (sig *Signal[T]) WaitChanged() { sig.changed.Wait() }
