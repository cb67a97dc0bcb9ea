package series

import (
	"fmt"

	"github.com/jv-marek/radsim/internal/geom"
)

// Payload is the capability set a quantity needs to ride in a Window:
// subtraction against its own kind and scaling by a float64. Both
// geom.Scalar and geom.Vec3 satisfy it.
type Payload[T any] interface {
	Sub(T) T
	Scale(float64) T
}

// Window holds one physical quantity at four consecutive timesteps and
// computes symmetric finite-difference derivatives against a shared time
// axis. The slots are ordered oldest to newest: old2 (t-3), old (t-2),
// now (t-1), future (t).
//
// The axis is borrowed, never owned: every window sampled on the same
// run shares the single Axis held by the driver, and that axis must
// outlive all windows referencing it.
type Window[T Payload[T]] struct {
	old2, old, now, future T
	axis                   *Axis
}

// New returns a fully populated window bound to axis.
func New[T Payload[T]](old2, old, now, future T, axis *Axis) Window[T] {
	return Window[T]{old2: old2, old: old, now: now, future: future, axis: axis}
}

// NewEmpty returns a window bound to axis with zero-valued slots. The
// caller must populate all four slots (via Advance or Assign) before
// reading any derivative.
func NewEmpty[T Payload[T]](axis *Axis) Window[T] {
	return Window[T]{axis: axis}
}

// Assign copies the four slots of other into w. Both windows must be
// bound to the identical axis; mixing axes is a caller bug and panics.
func (w *Window[T]) Assign(other Window[T]) {
	if other.axis != w.axis {
		panic(fmt.Sprintf("series: assign across distinct time axes (%p != %p)", other.axis, w.axis))
	}
	w.old2 = other.old2
	w.old = other.old
	w.now = other.now
	w.future = other.future
}

// Advance shifts every slot one step toward the past and installs next
// as the new future value. The previous old2 is discarded.
func (w *Window[T]) Advance(next T) {
	w.old2 = w.old
	w.old = w.now
	w.now = w.future
	w.future = next
}

// DerivAtOld estimates the time derivative at the "old" step (t-2) with
// the centered second-order stencil (now - old2) / (t.now - t.old2).
//
// Precondition: all four slots and the axis are populated. There is no
// runtime guard; reading a partially filled window gives garbage.
func (w *Window[T]) DerivAtOld() T {
	return w.now.Sub(w.old2).Scale(1 / float64(w.axis.now-w.axis.old2))
}

// DerivAtNow estimates the time derivative at the "now" step (t-1),
// the same centered stencil shifted one step later. A derivative from
// DerivAtNow pairs with the Now slot; one from DerivAtOld pairs with
// Old.
func (w *Window[T]) DerivAtNow() T {
	return w.future.Sub(w.old).Scale(1 / float64(w.axis.future-w.axis.old))
}

// DeltaOldNow returns now - old, a first-order single-step difference
// for callers that do not need the centered stencil.
func (w *Window[T]) DeltaOldNow() T {
	return w.now.Sub(w.old)
}

func (w *Window[T]) Old2() T   { return w.old2 }
func (w *Window[T]) Old() T    { return w.old }
func (w *Window[T]) Now() T    { return w.now }
func (w *Window[T]) Future() T { return w.future }

// Axis returns the borrowed time axis the window is bound to.
func (w *Window[T]) Axis() *Axis { return w.axis }

// Axis is the discretized time line itself: the absolute simulation
// times at the four steps every sibling window currently spans. One
// Axis is shared per run; the driver advances it first, then every
// quantity window, in lockstep.
type Axis struct {
	old2, old, now, future geom.Scalar
}

// NewAxis returns a populated time axis.
func NewAxis(old2, old, now, future float64) *Axis {
	return &Axis{
		old2:   geom.Scalar(old2),
		old:    geom.Scalar(old),
		now:    geom.Scalar(now),
		future: geom.Scalar(future),
	}
}

// NewEmptyAxis returns an axis pending population via Advance.
func NewEmptyAxis() *Axis {
	return &Axis{}
}

// Advance shifts the time slots and installs next as the newest time.
func (a *Axis) Advance(next float64) {
	a.old2 = a.old
	a.old = a.now
	a.now = a.future
	a.future = geom.Scalar(next)
}

func (a *Axis) Old2() float64   { return float64(a.old2) }
func (a *Axis) Old() float64    { return float64(a.old) }
func (a *Axis) Now() float64    { return float64(a.now) }
func (a *Axis) Future() float64 { return float64(a.future) }
