// Package kernel defines the abstract operations a DSP kernel must satisfy,
// the KernelFactory that advertises a kernel's shape, and the tagged audio
// event model the kernel consumes through a pull-style generator.
//
// Everything here is a contract, not an implementation: the concrete DSP
// kernel itself is an FFI boundary to a native numeric engine and out of
// scope for this package (see spec.md §1). Only the DSP thread may call a
// Kernel's methods, and never without the wrapper's DSP lock held.
package kernel

import "github.com/russellmcc/brinicle/descriptor"

// Deinterleaved is a planar (non-interleaved) audio buffer: ChannelCount
// channels of FrameCount samples each, addressed as Data[channel][frame].
type Deinterleaved struct {
	ChannelCount int
	FrameCount   int
	Data         [][]float32
}

// Kernel is the single-threaded DSP processing contract. Only the DSP
// thread calls these methods, and always under the owning wrapper's DSP
// lock.
type Kernel interface {
	descriptor.ParameterSet

	// Reset restores the kernel to its initial steady state. May allocate.
	Reset()

	// Process consumes events in non-decreasing Time order (the generator
	// is responsible for that ordering) and writes output samples into
	// audio. Must not block or allocate on a steady-state path.
	Process(audio Deinterleaved, events EventGenerator)

	// GetLatency reports the kernel's processing latency in samples.
	GetLatency() uint64
}

// KernelType distinguishes an instrument (generates audio) from an effect
// (processes audio).
type KernelType int

const (
	KernelTypeEffect KernelType = iota
	KernelTypeInstrument
)

// ChannelCount is a variant: either a specific channel count, or a
// wildcard meaning any positive count.
type ChannelCount struct {
	Any   bool
	Count int // meaningful only when Any is false
}

// AnyChannelCount is the wildcard ChannelCount.
func AnyChannelCount() ChannelCount { return ChannelCount{Any: true} }

// FixedChannelCount is a specific channel count requirement.
func FixedChannelCount(n int) ChannelCount { return ChannelCount{Count: n} }

// Matches reports whether n channels satisfies c.
func (c ChannelCount) Matches(n int) bool {
	if c.Any {
		return n > 0
	}
	return n == c.Count
}

// AllowedChannelConfiguration is one (input, output) channel-count pairing
// a KernelFactory's kernels can be constructed with.
type AllowedChannelConfiguration struct {
	Input  ChannelCount
	Output ChannelCount
}

// Info describes everything a host needs to know about a kernel family
// before constructing one.
type Info struct {
	Type                         KernelType
	AllowedChannelConfigurations []AllowedChannelConfiguration
	Parameters                   []descriptor.Descriptor

	// HasBypassParameter and BypassParameter mirror the optional bypass
	// address from spec.md §4.3; HasBypassParameter is false when the
	// kernel family has no dedicated bypass parameter.
	HasBypassParameter bool
	BypassParameter    descriptor.Address
}

// Factory advertises a kernel family's shape and constructs instances of
// it.
type Factory interface {
	Info() Info
	MakeKernel(inputChannels, outputChannels int, sampleRate float64) (Kernel, error)
}
