// Package mirror implements the two thread-local value caches and the
// lock-free atomic bridge between them (ParamMirror), plus the
// grab/ungrab gesture accounting (GrabMirror). Both are reconciled by
// explicit sync calls from each side; neither type takes its own lock —
// callers (the wrapped kernel) are responsible for serializing access from
// each side under that side's own lock, per spec.md §4.4/§4.5.
package mirror

import "github.com/russellmcc/brinicle/descriptor"

// ParamMirror holds, per declared parameter, a UI-owned slot, a DSP-owned
// slot, and an atomic bridge slot, all initialized to the descriptor
// default. See spec.md §3 for the eventual-consistency invariant and §4.4
// for the sync algorithms.
type ParamMirror struct {
	ui     descriptor.State
	dsp    descriptor.State
	atomic map[descriptor.Address]*atomicFloat32
}

// NewParamMirror builds a mirror over descriptors, with every slot set to
// that descriptor's default value.
func NewParamMirror(descriptors []descriptor.Descriptor) *ParamMirror {
	m := &ParamMirror{
		ui:     make(descriptor.State, len(descriptors)),
		dsp:    make(descriptor.State, len(descriptors)),
		atomic: make(map[descriptor.Address]*atomicFloat32, len(descriptors)),
	}
	for _, d := range descriptors {
		v := d.Default()
		m.ui[d.Address] = v
		m.dsp[d.Address] = v
		m.atomic[d.Address] = newAtomicFloat32(v)
	}
	return m
}

// GetFromUIThread returns the UI slot for addr. Caller must hold the UI
// lock.
func (m *ParamMirror) GetFromUIThread(addr descriptor.Address) float32 {
	return m.ui[addr]
}

// SetFromUIThread writes the UI slot for addr and publishes the new value
// into the atomic bridge slot. Caller must hold the UI lock.
func (m *ParamMirror) SetFromUIThread(addr descriptor.Address, value float32) {
	m.ui[addr] = value
	m.atomic[addr].store(value)
}

// SyncFromDSPThread runs the two-pass DSP-side reconciliation described in
// spec.md §4.4:
//
//  1. For each parameter, load the atomic slot; if it differs from the DSP
//     slot, write the DSP slot and call setFn(address, value) — this pushes
//     UI-originated changes into the kernel.
//  2. For each parameter, read getFn(address) (the kernel's current
//     value); if it differs from the DSP slot, update the DSP slot and
//     republish into the atomic slot — this captures kernel-driven changes
//     (e.g. automation) for UI consumption.
//
// Caller must hold the DSP lock. Bounded iteration over the declared
// parameter count, no allocation: real-time safe per spec.md §4.4.
func (m *ParamMirror) SyncFromDSPThread(setFn func(descriptor.Address, float32), getFn func(descriptor.Address) float32) {
	for addr, slot := range m.atomic {
		v := slot.load()
		if v != m.dsp[addr] {
			m.dsp[addr] = v
			setFn(addr, v)
		}
	}

	for addr := range m.dsp {
		v := getFn(addr)
		if v != m.dsp[addr] {
			m.dsp[addr] = v
			m.atomic[addr].store(v)
		}
	}
}

// SyncFromUIThread runs the UI-side reconciliation from spec.md §4.4: for
// each parameter, load the atomic slot; if it differs from the UI slot,
// update the UI slot and call notifyFn(address, value). This is how the UI
// learns of DSP-originated changes. Caller must hold the UI lock.
func (m *ParamMirror) SyncFromUIThread(notifyFn func(descriptor.Address, float32)) {
	for addr, slot := range m.atomic {
		v := slot.load()
		if v != m.ui[addr] {
			m.ui[addr] = v
			notifyFn(addr, v)
		}
	}
}
