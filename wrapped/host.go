package wrapped

import "github.com/russellmcc/brinicle/descriptor"

// HostInterface is the collaborator the wrapper invokes on the DSP sync
// path (spec.md §4.7). All three methods are called from DSP sync and must
// be cheap and non-blocking, except UpdateHost which may itself block on
// host-internal mutexes.
type HostInterface interface {
	// UpdateHost notifies the host that parameter values may have
	// changed.
	UpdateHost()

	// Grab signals the start of a gesture on addr.
	Grab(addr descriptor.Address)

	// Ungrab signals the end of a gesture on addr.
	Ungrab(addr descriptor.Address)
}

// NoopHostInterface is the default HostInterface: every method is a no-op,
// matching spec.md §4.7's "default implementations are no-ops".
type NoopHostInterface struct{}

func (NoopHostInterface) UpdateHost()              {}
func (NoopHostInterface) Grab(descriptor.Address)  {}
func (NoopHostInterface) Ungrab(descriptor.Address) {}

var _ HostInterface = NoopHostInterface{}
