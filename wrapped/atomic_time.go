package wrapped

import (
	"math"
	"sync/atomic"
	"time"
)

// neverSynced is the sentinel stored in atomicTime before the first DSP
// sync: an int64 can't hold a "nothing stored yet" case the way a nil
// pointer would, so math.MinInt64 (never an offset a real store produces)
// stands in for spec.md §4.6's "infinity" elapsed-time case.
const neverSynced = math.MinInt64

// monoBase anchors stored timestamps to the monotonic clock: store records
// the monotonic offset from it and load adds that offset back, so the
// returned time carries a monotonic reading and time.Since on it is
// unaffected by wall-clock changes.
var monoBase = time.Now()

// atomicTime is last_dsp_sync_time from spec.md §4.6: a monotonic
// timestamp, atomically readable from the UI thread and written only by
// the DSP sync path. Stored as nanoseconds since monoBase in a plain
// atomic.Int64 rather than an atomic.Pointer[time.Time]: the DSP thread
// calls store on every buffer (wrapped_kernel.go's SyncFromDSPThread), and
// a pointer store would heap-allocate a fresh time.Time each call, which
// spec.md §5 forbids on the steady-state real-time path.
type atomicTime struct {
	nanos atomic.Int64
}

func (a *atomicTime) store(t time.Time) {
	a.nanos.Store(int64(t.Sub(monoBase)))
}

// load returns the stored time and true, or the zero time and false if
// nothing has been stored yet.
func (a *atomicTime) load() (time.Time, bool) {
	n := a.nanos.Load()
	if n == neverSynced {
		return time.Time{}, false
	}
	return monoBase.Add(time.Duration(n)), true
}

func newAtomicTime() *atomicTime {
	a := &atomicTime{}
	a.nanos.Store(neverSynced)
	return a
}
