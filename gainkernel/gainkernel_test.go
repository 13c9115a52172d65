package gainkernel

import (
	"testing"

	"github.com/russellmcc/brinicle/kernel"
	"github.com/stretchr/testify/assert"
)

func Test_factory_info_advertises_bypass(t *testing.T) {
	info := Factory{}.Info()
	assert.True(t, info.HasBypassParameter)
	assert.Equal(t, AddressBypass, info.BypassParameter)
	assert.Equal(t, kernel.KernelTypeEffect, info.Type)
}

func Test_make_kernel_starts_at_defaults(t *testing.T) {
	k, err := Factory{}.MakeKernel(2, 2, 48000)
	assert.NoError(t, err)
	assert.Equal(t, float32(0), k.GetParameter(AddressGain))
	assert.Equal(t, float32(0), k.GetParameter(AddressBypass))
}

func Test_process_applies_gain(t *testing.T) {
	k, _ := Factory{}.MakeKernel(1, 1, 48000)
	k.SetParameter(AddressGain, 0) // 0dB: unity gain

	buf := [][]float32{{0.5, 1.0}}
	audio := kernel.Deinterleaved{ChannelCount: 1, FrameCount: 2, Data: buf}

	k.Process(audio, kernel.SliceEventGenerator(nil))

	assert.InDelta(t, 0.5, buf[0][0], 1e-6)
	assert.InDelta(t, 1.0, buf[0][1], 1e-6)
}

func Test_process_bypass_skips_gain(t *testing.T) {
	k, _ := Factory{}.MakeKernel(1, 1, 48000)
	k.SetParameter(AddressGain, 12) // would otherwise audibly change the signal
	k.SetParameter(AddressBypass, 1)

	buf := [][]float32{{0.5}}
	audio := kernel.Deinterleaved{ChannelCount: 1, FrameCount: 1, Data: buf}

	k.Process(audio, kernel.SliceEventGenerator(nil))

	assert.Equal(t, float32(0.5), buf[0][0])
}

func Test_process_applies_in_buffer_parameter_change(t *testing.T) {
	k, _ := Factory{}.MakeKernel(1, 1, 48000)

	events := kernel.SliceEventGenerator([]kernel.AudioEvent{
		{Tag: kernel.EventParameterChange, Time: 0, Address: AddressBypass, Value: 1},
	})

	buf := [][]float32{{0.5}}
	audio := kernel.Deinterleaved{ChannelCount: 1, FrameCount: 1, Data: buf}

	k.Process(audio, events)

	assert.Equal(t, float32(0.5), buf[0][0]) // the in-buffer bypass change took effect
	assert.Equal(t, float32(1), k.GetParameter(AddressBypass))
}

// S6: a MIDI event generator yielding one message then end-of-stream is
// consumed exactly once and doesn't affect the audio path (structural
// pass-through only, no MIDI synthesis in this reference kernel).
func Test_S6_midi_event_is_structurally_consumed(t *testing.T) {
	k, _ := Factory{}.MakeKernel(1, 1, 48000)

	events := kernel.SliceEventGenerator([]kernel.AudioEvent{
		{Tag: kernel.EventMidiMessage, Time: 10, Cable: 0, ValidByteCount: 3, MidiPayload: [3]byte{0x90, 0x3C, 0x7F}},
	})

	buf := [][]float32{{1.0}}
	audio := kernel.Deinterleaved{ChannelCount: 1, FrameCount: 1, Data: buf}

	assert.NotPanics(t, func() { k.Process(audio, events) })
	assert.Equal(t, float32(1.0), buf[0][0]) // audio path unaffected at default 0dB linear

	_, ok := events()
	assert.False(t, ok) // the single event was consumed; the stream is at its end
}
