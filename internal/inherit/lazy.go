package inherit

import (
	"errors"

	"github.com/StinkyLord/horizon-pool/internal/clone"
)

// State is the resolution state of a Lazy value.
type State uint8

const (
	Unresolved State = iota
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// errReentrant is returned by Value when the computation asks for its own
// result while it is still running.
var errReentrant = errors.New("lazy value requested while resolving")

// Lazy is a deferred computation evaluated at most once. The argument is
// deep copied when the Lazy is built, so later changes to the caller's data
// do not affect the result.
type Lazy[T any] struct {
	state State
	fn    func() (T, error)
	value T
}

// NewLazy binds fn to a snapshot of arg.
func NewLazy[T, A any](fn func(A) (T, error), arg A) *Lazy[T] {
	snapshot := clone.Of(arg)
	return &Lazy[T]{
		fn: func() (T, error) { return fn(snapshot) },
	}
}

// State reports where the value is in its lifecycle.
func (l *Lazy[T]) State() State {
	return l.state
}

// Value computes the result on first use and returns the cached copy after
// that. If the computation yields another Lazy of the same type, that one
// is forced as well. A failed computation leaves the value unresolved.
func (l *Lazy[T]) Value() (T, error) {
	switch l.state {
	case Resolved:
		return l.value, nil
	case Resolving:
		var zero T
		return zero, errReentrant
	}

	l.state = Resolving
	v, err := l.fn()
	if err == nil {
		if nested, ok := any(v).(*Lazy[T]); ok && nested != nil {
			v, err = nested.Value()
		}
	}
	if err != nil {
		l.state = Unresolved
		var zero T
		return zero, err
	}

	l.value = clone.Of(v)
	l.state = Resolved
	l.fn = nil
	return l.value, nil
}
