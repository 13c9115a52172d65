package mirror

import (
	"sync/atomic"

	"github.com/russellmcc/brinicle/descriptor"
)

// GrabMirror tracks, per declared parameter, UI-side grab/ungrab requests
// not yet observed by the DSP thread, and the DSP-owned saturating
// outstanding-grab count derived from them. See spec.md §3/§4.5.
type GrabMirror struct {
	dspGrabCount   map[descriptor.Address]uint64 // DSP-thread owned, not atomic
	pendingGrabs   map[descriptor.Address]*atomic.Uint64
	pendingUngrabs map[descriptor.Address]*atomic.Uint64
}

// NewGrabMirror builds a mirror over descriptors with all counters at zero.
func NewGrabMirror(descriptors []descriptor.Descriptor) *GrabMirror {
	g := &GrabMirror{
		dspGrabCount:   make(map[descriptor.Address]uint64, len(descriptors)),
		pendingGrabs:   make(map[descriptor.Address]*atomic.Uint64, len(descriptors)),
		pendingUngrabs: make(map[descriptor.Address]*atomic.Uint64, len(descriptors)),
	}
	for _, d := range descriptors {
		g.dspGrabCount[d.Address] = 0
		g.pendingGrabs[d.Address] = &atomic.Uint64{}
		g.pendingUngrabs[d.Address] = &atomic.Uint64{}
	}
	return g
}

// GrabFromUIThread records a UI-side grab request for addr. Safe to call
// from the UI thread at any time; does not block.
func (g *GrabMirror) GrabFromUIThread(addr descriptor.Address) {
	g.pendingGrabs[addr].Add(1)
}

// UngrabFromUIThread records a UI-side ungrab request for addr. Safe to
// call from the UI thread at any time; does not block.
func (g *GrabMirror) UngrabFromUIThread(addr descriptor.Address) {
	g.pendingUngrabs[addr].Add(1)
}

// CheckPendingGrabsFromDSPThread drains the pending-grab counters: for each
// parameter it atomically swaps the pending count to zero, adds the
// swapped delta to dspGrabCount, and calls onGrab(address) exactly when
// that addition takes the count from zero to nonzero. Caller must hold the
// DSP lock; must be called from the DSP thread only.
func (g *GrabMirror) CheckPendingGrabsFromDSPThread(onGrab func(descriptor.Address)) {
	for addr, pending := range g.pendingGrabs {
		delta := pending.Swap(0)
		was := g.dspGrabCount[addr] != 0
		g.dspGrabCount[addr] += delta
		is := g.dspGrabCount[addr] != 0

		if is != was {
			onGrab(addr)
		}
	}
}

// CheckPendingUngrabsFromDSPThread is the symmetric drain for ungrabs:
// dspGrabCount is saturating-subtracted by the swapped delta (clamped at
// zero, never underflowing), and onUngrab(address) fires on a
// nonzero-to-zero transition. Caller must hold the DSP lock; must be
// called from the DSP thread only.
func (g *GrabMirror) CheckPendingUngrabsFromDSPThread(onUngrab func(descriptor.Address)) {
	for addr, pending := range g.pendingUngrabs {
		delta := pending.Swap(0)
		was := g.dspGrabCount[addr] != 0

		if delta > g.dspGrabCount[addr] {
			g.dspGrabCount[addr] = 0
		} else {
			g.dspGrabCount[addr] -= delta
		}

		is := g.dspGrabCount[addr] != 0
		if is != was {
			onUngrab(addr)
		}
	}
}

// DSPGrabCount returns the current DSP-owned outstanding-grab count for
// addr. Intended for tests; must be called from the DSP thread (or with
// external synchronization) like the rest of this type.
func (g *GrabMirror) DSPGrabCount(addr descriptor.Address) uint64 {
	return g.dspGrabCount[addr]
}
