package mirror

import (
	"testing"

	"github.com/russellmcc/brinicle/descriptor"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func testDescriptors() []descriptor.Descriptor {
	return []descriptor.Descriptor{
		{Identifier: "a", Address: 1, Numeric: &descriptor.Numeric{Default: 0.0}},
		{Identifier: "b", Address: 2, Numeric: &descriptor.Numeric{Default: 1.0}},
	}
}

// fakeKernel is a minimal descriptor.ParameterSet standing in for the DSP
// kernel in mirror tests.
type fakeKernel struct{ values descriptor.State }

func newFakeKernel(descriptors []descriptor.Descriptor) *fakeKernel {
	return &fakeKernel{values: descriptor.GetDefaultState(descriptors)}
}

func (k *fakeKernel) SetParameter(addr descriptor.Address, v float32) { k.values[addr] = v }
func (k *fakeKernel) GetParameter(addr descriptor.Address) float32    { return k.values[addr] }

// P2: default initialization.
func Test_P2_default_initialization(t *testing.T) {
	descriptors := testDescriptors()
	m := NewParamMirror(descriptors)

	for _, d := range descriptors {
		assert.Equal(t, d.Default(), m.GetFromUIThread(d.Address))
	}
}

// P1: eventual consistency after one sync in each direction.
func Test_P1_eventual_consistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		descriptors := testDescriptors()
		m := NewParamMirror(descriptors)
		k := newFakeKernel(descriptors)

		writes := rapid.SliceOfN(
			rapid.Custom(func(t *rapid.T) struct {
				addr descriptor.Address
				val  float32
			} {
				idx := rapid.IntRange(0, len(descriptors)-1).Draw(t, "idx")
				val := rapid.Float32Range(-1000, 1000).Draw(t, "val")
				return struct {
					addr descriptor.Address
					val  float32
				}{descriptors[idx].Address, val}
			}), 0, 20,
		).Draw(t, "writes")

		for _, w := range writes {
			m.SetFromUIThread(w.addr, w.val)
		}

		syncUIFirst := rapid.Bool().Draw(t, "ui_first")
		if syncUIFirst {
			m.SyncFromUIThread(func(descriptor.Address, float32) {})
			m.SyncFromDSPThread(k.SetParameter, k.GetParameter)
		} else {
			m.SyncFromDSPThread(k.SetParameter, k.GetParameter)
			m.SyncFromUIThread(func(descriptor.Address, float32) {})
		}

		for _, d := range descriptors {
			ui := m.GetFromUIThread(d.Address)
			dsp := m.dsp[d.Address]
			atomic := m.atomic[d.Address].load()
			kv := k.GetParameter(d.Address)

			assert.Equal(t, ui, dsp)
			assert.Equal(t, dsp, atomic)
			assert.Equal(t, atomic, kv)
		}
	})
}

// S1: two numeric parameters with defaults {1: 0.0, 2: 1.0}; UI writes
// {1: 0.5}; sync_from_dsp_thread; kernel observes set_parameter(1, 0.5)
// only; then sync_from_ui_thread with a noop is a no-op on the UI side.
func Test_S1_ui_write_reaches_kernel_only_for_changed_param(t *testing.T) {
	descriptors := testDescriptors()
	m := NewParamMirror(descriptors)
	k := newFakeKernel(descriptors)

	var setCalls []descriptor.Address
	m.SetFromUIThread(1, 0.5)

	m.SyncFromDSPThread(func(addr descriptor.Address, v float32) {
		setCalls = append(setCalls, addr)
		k.SetParameter(addr, v)
	}, k.GetParameter)

	assert.Equal(t, []descriptor.Address{1}, setCalls)
	assert.Equal(t, float32(0.5), k.GetParameter(1))
	assert.Equal(t, float32(1.0), k.GetParameter(2))

	var notified bool
	m.SyncFromUIThread(func(descriptor.Address, float32) { notified = true })
	assert.False(t, notified)
}

// S3: kernel internally sets parameter 3 to 0.75; sync_from_dsp_thread
// reads it back; a subsequent sync_from_ui_thread calls cb(3, 0.75) exactly
// once.
func Test_S3_kernel_driven_change_is_republished_once(t *testing.T) {
	descriptors := []descriptor.Descriptor{
		{Identifier: "c", Address: 3, Numeric: &descriptor.Numeric{Default: 0.0}},
	}
	m := NewParamMirror(descriptors)
	k := newFakeKernel(descriptors)

	k.SetParameter(3, 0.75) // simulate kernel-internal automation

	m.SyncFromDSPThread(k.SetParameter, k.GetParameter)

	var notifications []struct {
		addr descriptor.Address
		val  float32
	}
	m.SyncFromUIThread(func(addr descriptor.Address, v float32) {
		notifications = append(notifications, struct {
			addr descriptor.Address
			val  float32
		}{addr, v})
	})

	assert.Len(t, notifications, 1)
	assert.Equal(t, descriptor.Address(3), notifications[0].addr)
	assert.Equal(t, float32(0.75), notifications[0].val)

	// A second sync_from_ui_thread with nothing new changed fires nothing.
	var again bool
	m.SyncFromUIThread(func(descriptor.Address, float32) { again = true })
	assert.False(t, again)
}
