package wrapped

import "github.com/russellmcc/brinicle/descriptor"

// UIParameterSet is the UI-thread-facing view: values can only be written
// through a GrabbedParameter, enforcing gesture bracketing (spec.md §4.7).
// A UIParameterSet returned by WrappedKernel.UIParameterSet is only valid
// for the lifetime of that WrappedKernel; a GrabbedParameter obtained from
// it is in turn only valid for the lifetime of the UIParameterSet.
type UIParameterSet interface {
	GrabParameter(addr descriptor.Address) *GrabbedParameter
	GetParameter(addr descriptor.Address) float32
}

// GrabbedParameter represents a parameter currently being interacted with
// on the UI thread. Constructing one registers a pending grab; Release
// registers the matching pending ungrab. Between the two, SetParameter is
// permitted. A GrabbedParameter must not be used after Release.
type GrabbedParameter struct {
	addr     descriptor.Address
	owner    *WrappedKernel
	released bool
}

// SetParameter writes value through the owning wrapper's UI lock and
// param mirror. Calling it after Release is a programmer error.
func (p *GrabbedParameter) SetParameter(value float32) {
	if p.released {
		panic("wrapped: SetParameter called on a released GrabbedParameter")
	}

	p.owner.uiLock.Lock()
	defer p.owner.uiLock.Unlock()
	p.owner.mirror.SetFromUIThread(p.addr, value)
}

// Release ends the gesture: it registers the pending ungrab that the next
// DSP sync will observe. Calling Release more than once is a programmer
// error — unlike the original C++ destructor-triggered ungrab, Go has no
// automatic teardown, so the caller must call Release exactly once
// (typically via `defer`).
func (p *GrabbedParameter) Release() {
	if p.released {
		panic("wrapped: GrabbedParameter released twice")
	}
	p.released = true
	p.owner.grabMirror.UngrabFromUIThread(p.addr)
}
