// Package gainkernel is a small, in-process reference Kernel/Factory: a
// gain stage with a bypass switch and a three-way curve selector. It has no
// FFI boundary and no native engine behind it — it exists so the demo
// harness has a real (if trivial) kernel to exercise instead of a mock,
// the way a reference plugin would in a real host SDK.
package gainkernel

import (
	"math"

	"github.com/russellmcc/brinicle/descriptor"
	"github.com/russellmcc/brinicle/kernel"
)

const (
	AddressGain    descriptor.Address = 1
	AddressBypass  descriptor.Address = 2
	AddressCurve   descriptor.Address = 3
)

const (
	CurveLinear = iota
	CurveSoftClip
	CurveHardClip
)

// Descriptors returns the parameter descriptors for the gain kernel
// family: a gain in decibels, a bypass switch, and a curve selector.
func Descriptors() []descriptor.Descriptor {
	return []descriptor.Descriptor{
		{
			Identifier: "gain_db",
			Address:    AddressGain,
			Name:       "Gain",
			Flags:      descriptor.FlagAutomatable | descriptor.FlagBoundedBelow | descriptor.FlagBoundedAbove,
			Numeric: &descriptor.Numeric{
				Min: -60, Max: 12,
				Unit:    descriptor.Unit{Enum: descriptor.UnitDecibels},
				Default: 0,
			},
			Dependents: []descriptor.Address{AddressCurve},
		},
		{
			Identifier: "bypass",
			Address:    AddressBypass,
			Name:       "Bypass",
			Flags:      descriptor.FlagAutomatable | descriptor.FlagSteppable,
			Indexed: &descriptor.Indexed{
				ValueLabels:  []string{"off", "on"},
				DefaultIndex: 0,
			},
		},
		{
			Identifier: "curve",
			Address:    AddressCurve,
			Name:       "Curve",
			Indexed: &descriptor.Indexed{
				ValueLabels:  []string{"linear", "soft clip", "hard clip"},
				DefaultIndex: 0,
			},
		},
	}
}

// Factory is a kernel.Factory producing gain Kernels. It is an effect
// (processes audio rather than generating it) accepting any positive input
// and output channel counts, with bypass wired to AddressBypass.
type Factory struct{}

func (Factory) Info() kernel.Info {
	return kernel.Info{
		Type: kernel.KernelTypeEffect,
		AllowedChannelConfigurations: []kernel.AllowedChannelConfiguration{
			{Input: kernel.AnyChannelCount(), Output: kernel.AnyChannelCount()},
		},
		Parameters:         Descriptors(),
		HasBypassParameter: true,
		BypassParameter:    AddressBypass,
	}
}

func (Factory) MakeKernel(inputChannels, outputChannels int, sampleRate float64) (kernel.Kernel, error) {
	k := &Kernel{sampleRate: sampleRate}
	descriptor.ApplyDefaults(k, Descriptors())
	return k, nil
}

var _ kernel.Factory = Factory{}

// Kernel is the gain stage itself. Process first applies every event's
// parameter value, then applies the resulting gain to every sample, with
// the selected curve's soft/hard clipping applied after gain, unless
// bypassed. Event times are not honoured within the buffer, and a ramped
// parameter change takes effect immediately without a ramp.
type Kernel struct {
	sampleRate float64
	values     descriptor.State
	latency    uint64
}

func (k *Kernel) SetParameter(addr descriptor.Address, v float32) {
	if k.values == nil {
		k.values = make(descriptor.State)
	}
	k.values[addr] = v
}

func (k *Kernel) GetParameter(addr descriptor.Address) float32 { return k.values[addr] }

func (k *Kernel) Reset() {
	k.latency = 0
}

func (k *Kernel) GetLatency() uint64 { return k.latency }

func (k *Kernel) Process(audio kernel.Deinterleaved, events kernel.EventGenerator) {
	for {
		e, ok := events()
		if !ok {
			break
		}
		switch e.Tag {
		case kernel.EventParameterChange, kernel.EventRampedParameterChange:
			k.values[e.Address] = e.Value
		case kernel.EventMidiMessage:
			// Structural pass-through only, per spec.md §1 non-goals: no
			// MIDI parsing beyond recognizing the event occurred.
		}
	}

	if k.values[AddressBypass] != 0 {
		return
	}

	gainDB := float64(k.values[AddressGain])
	linearGain := math.Pow(10, gainDB/20)
	curve := int(k.values[AddressCurve])

	for ch := 0; ch < audio.ChannelCount; ch++ {
		for i := 0; i < audio.FrameCount; i++ {
			s := float64(audio.Data[ch][i]) * linearGain
			audio.Data[ch][i] = float32(applyCurve(curve, s))
		}
	}
}

func applyCurve(curve int, s float64) float64 {
	switch curve {
	case CurveSoftClip:
		return math.Tanh(s)
	case CurveHardClip:
		if s > 1 {
			return 1
		}
		if s < -1 {
			return -1
		}
		return s
	default:
		return s
	}
}

var _ kernel.Kernel = (*Kernel)(nil)
