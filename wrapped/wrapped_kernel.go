// Package wrapped composes the kernel contract, the parameter mirror, and
// the grab mirror into WrappedKernel: a thread-safe façade that a DSP
// thread and a UI thread can both drive concurrently, per spec.md §4.6.
//
// Lock discipline: the DSP lock guards access to the owned Kernel and the
// DSP-thread side of the mirrors; it is expected to be uncontended except
// when the UI thread runs the fallback sync described below. The UI lock
// guards the UI-thread side of the param mirror. The two locks are never
// held at the same time. Every call into the Kernel, and the
// HostInterface's Grab and Ungrab edges, run under the DSP lock; the DSP
// lock is released around HostInterface.UpdateHost.
//
// Re-architecture note (spec.md §9 Open Questions): the original design
// calls for a recursive UI lock because a grabbed-parameter handle's
// destructor can re-enter while the UI lock is held. This package instead
// keeps GrabbedParameter.Release lock-free (it only touches the
// GrabMirror's atomic counters), so the UI lock is never re-entered and a
// plain sync.Mutex is correct.
package wrapped

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/russellmcc/brinicle/descriptor"
	"github.com/russellmcc/brinicle/kernel"
	"github.com/russellmcc/brinicle/mirror"
)

// DefaultDSPDisabledDuration is the default fallback threshold from
// spec.md §4.6/§9: conservative, much longer than a typical process cycle,
// so the audio thread wins under normal operation.
const DefaultDSPDisabledDuration = 1 * time.Second

// Logger is used for the few diagnostic events this package ever emits;
// per spec.md §7 the DSP thread itself never logs. Callers may replace it
// wholesale (e.g. with a logger scoped to their own component) before
// constructing any WrappedKernel.
var Logger = log.Default()

// WrappedKernel owns a Kernel exclusively and exposes thread-safe façades
// to both the DSP thread and a UI thread. See the package doc for lock
// discipline.
type WrappedKernel struct {
	kernel     kernel.Kernel
	mirror     *mirror.ParamMirror
	grabMirror *mirror.GrabMirror

	uiLock  sync.Mutex
	dspLock sync.Mutex

	dspDisabledDuration time.Duration
	lastDSPSyncTime     *atomicTime

	hostMu sync.Mutex
	host   HostInterface

	ui uiParameterSetImpl
}

// NewWrappedKernel constructs a WrappedKernel over k, with one mirror slot
// per descriptor in descriptors. host may be nil, equivalent to a lapsed
// weak reference: all host-directed notifications are then silently
// dropped, per spec.md §4.7.
func NewWrappedKernel(k kernel.Kernel, descriptors []descriptor.Descriptor, host HostInterface) *WrappedKernel {
	w := &WrappedKernel{
		kernel:              k,
		mirror:              mirror.NewParamMirror(descriptors),
		grabMirror:          mirror.NewGrabMirror(descriptors),
		dspDisabledDuration: DefaultDSPDisabledDuration,
		lastDSPSyncTime:     newAtomicTime(),
		host:                host,
	}
	w.ui.owner = w
	return w
}

// SetHost replaces the registered HostInterface. Passing nil is the Go
// analog of the weak host reference lapsing: subsequent sync calls become
// silent no-ops on the host-notification path.
func (w *WrappedKernel) SetHost(host HostInterface) {
	w.hostMu.Lock()
	defer w.hostMu.Unlock()
	w.host = host
}

func (w *WrappedKernel) currentHost() HostInterface {
	w.hostMu.Lock()
	defer w.hostMu.Unlock()
	return w.host
}

// UIParameterSet returns the UI-thread view owned by w. The returned value
// must not be used after w is discarded.
func (w *WrappedKernel) UIParameterSet() UIParameterSet {
	return &w.ui
}

// --- DSP-thread operations ---

// Process delegates to the owned kernel's Process under the DSP lock. No
// parameter sync happens here; sync is always explicit via
// SyncFromDSPThread.
func (w *WrappedKernel) Process(audio kernel.Deinterleaved, events kernel.EventGenerator) {
	w.dspLock.Lock()
	defer w.dspLock.Unlock()
	w.kernel.Process(audio, events)
}

// Reset delegates to the owned kernel's Reset under the DSP lock.
func (w *WrappedKernel) Reset() {
	w.dspLock.Lock()
	defer w.dspLock.Unlock()
	w.kernel.Reset()
}

// SetParameter writes directly to the owned kernel under the DSP lock,
// bypassing the mirror entirely. Per spec.md §9's resolved Open Question,
// this is intentional: a direct write here is only visible to the UI after
// the next SyncFromDSPThread reads it back.
func (w *WrappedKernel) SetParameter(addr descriptor.Address, value float32) {
	w.dspLock.Lock()
	defer w.dspLock.Unlock()
	w.kernel.SetParameter(addr, value)
}

// GetParameter reads directly from the owned kernel under the DSP lock.
func (w *WrappedKernel) GetParameter(addr descriptor.Address) float32 {
	w.dspLock.Lock()
	defer w.dspLock.Unlock()
	return w.kernel.GetParameter(addr)
}

// GetLatency reads the owned kernel's latency under the DSP lock.
func (w *WrappedKernel) GetLatency() uint64 {
	w.dspLock.Lock()
	defer w.dspLock.Unlock()
	return w.kernel.GetLatency()
}

// SyncFromDSPThread runs the full DSP-side reconciliation (spec.md §4.6):
//
//  1. Stamp last_dsp_sync_time with the current time.
//  2. Under the DSP lock, run the param mirror's DSP-side sync against the
//     kernel's setter/getter.
//  3. If a HostInterface is registered: under the DSP lock, drain pending
//     grabs and call host.Grab per edge; release the DSP lock and call
//     host.UpdateHost (which may block); then, under the DSP lock again,
//     drain pending ungrabs and call host.Ungrab per edge.
//
// Grab edges always precede UpdateHost; ungrab edges always follow it —
// this ordering is load-bearing, not incidental (spec.md §4.5/§5).
func (w *WrappedKernel) SyncFromDSPThread() {
	w.lastDSPSyncTime.store(time.Now())

	w.dspLock.Lock()
	w.mirror.SyncFromDSPThread(w.kernel.SetParameter, w.kernel.GetParameter)
	w.dspLock.Unlock()

	host := w.currentHost()
	if host == nil {
		return
	}

	w.dspLock.Lock()
	w.grabMirror.CheckPendingGrabsFromDSPThread(host.Grab)
	w.dspLock.Unlock()

	host.UpdateHost()

	w.dspLock.Lock()
	w.grabMirror.CheckPendingUngrabsFromDSPThread(host.Ungrab)
	w.dspLock.Unlock()
}

// --- UI-thread operations ---

// SyncFromUIThread runs the UI-side reconciliation: under the UI lock, run
// the param mirror's UI-side sync, invoking notifyFn for every
// DSP-originated change. If the DSP thread has been idle for at least the
// configured fallback duration (default DefaultDSPDisabledDuration), this
// also runs SyncFromDSPThread from the UI thread — see spec.md §4.6's
// rationale: when the audio thread isn't running, nothing else would ever
// drain UI-originated writes into the kernel.
func (w *WrappedKernel) SyncFromUIThread(notifyFn func(descriptor.Address, float32)) {
	w.uiLock.Lock()
	w.mirror.SyncFromUIThread(notifyFn)
	w.uiLock.Unlock()

	last, ok := w.lastDSPSyncTime.load()
	elapsed := time.Duration(math.MaxInt64) // "never": treat as infinity
	if ok {
		elapsed = time.Since(last)
	}

	if elapsed >= w.dspDisabledDuration {
		Logger.Debug("dsp thread idle past fallback threshold, syncing from ui thread",
			"elapsed", elapsed, "threshold", w.dspDisabledDuration)
		w.SyncFromDSPThread()
	}
}

// SetDSPDisabledDuration overrides the fallback threshold from its default
// of DefaultDSPDisabledDuration. Intended for tests; an embedding host that
// wants finer control over the (deliberately coarse, per spec.md §9)
// threshold can call this once after construction.
func (w *WrappedKernel) SetDSPDisabledDuration(d time.Duration) {
	w.dspDisabledDuration = d
}

// uiParameterSetImpl is the concrete UIParameterSet returned by
// WrappedKernel.UIParameterSet.
type uiParameterSetImpl struct {
	owner *WrappedKernel
}

func (s *uiParameterSetImpl) GrabParameter(addr descriptor.Address) *GrabbedParameter {
	s.owner.grabMirror.GrabFromUIThread(addr)
	return &GrabbedParameter{addr: addr, owner: s.owner}
}

func (s *uiParameterSetImpl) GetParameter(addr descriptor.Address) float32 {
	s.owner.uiLock.Lock()
	defer s.owner.uiLock.Unlock()
	return s.owner.mirror.GetFromUIThread(addr)
}
