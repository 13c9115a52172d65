// Package descriptor defines the parameter descriptor model: the immutable,
// factory-time metadata for each parameter a kernel exposes, and the pure
// iteration helpers that derive default and current state snapshots from
// it.
package descriptor

import "fmt"

// Address is a stable, opaque identifier for a parameter, assigned once at
// factory construction time and unique across a plug-in instance.
type Address uint64

// Flags is a bitfield of parameter display/automation hints. The concrete
// bit meanings are a host/UI concern; the core only stores and passes them
// through.
type Flags uint32

const (
	FlagAutomatable Flags = 1 << iota
	FlagBoundedBelow
	FlagBoundedAbove
	FlagSteppable
)

// Unit names a physical unit for a numeric parameter, either via a small
// enumeration of common units or a free-form label when none fits.
type Unit struct {
	Enum  UnitEnum
	Label string // used when Enum == UnitCustom
}

// UnitEnum enumerates the built-in unit kinds a numeric parameter can carry.
type UnitEnum int

const (
	UnitGeneric UnitEnum = iota
	UnitHertz
	UnitDecibels
	UnitSeconds
	UnitPercent
	UnitCustom
)

// Numeric is the variant body of a numeric parameter descriptor.
type Numeric struct {
	Min, Max Format
	Unit     Unit
	Default  Format
}

// Format is a plain float64 used for descriptor-time bounds/defaults;
// runtime parameter values are always float32 (see ParameterSet).
type Format = float64

// Indexed is the variant body of an indexed (enumerated) parameter
// descriptor. Its runtime value is a float32 that encodes an integer index
// in [0, len(ValueLabels)).
type Indexed struct {
	ValueLabels  []string
	DefaultIndex int
}

// Descriptor is the immutable tuple describing one declared parameter.
// Exactly one of Numeric or Indexed is non-nil.
type Descriptor struct {
	Identifier string
	Address    Address
	Name       string
	Flags      Flags

	Numeric *Numeric
	Indexed *Indexed

	// Dependents lists addresses of parameters whose display should be
	// reconsidered when this one changes (supplemented from the original
	// implementation; pure data, consumed only by a UI layer).
	Dependents []Address
}

// Default returns the descriptor's default value as a runtime parameter
// value.
func (d Descriptor) Default() float32 {
	switch {
	case d.Numeric != nil:
		return float32(d.Numeric.Default)
	case d.Indexed != nil:
		return float32(d.Indexed.DefaultIndex)
	default:
		panic("descriptor: neither Numeric nor Indexed set for " + d.Identifier)
	}
}

// State is a dense mapping from parameter address to current value.
// Order is never significant, per spec.
type State map[Address]float32

// ParameterSet is a bidirectional key-value store over parameter addresses.
// Addresses not present in the factory's declared descriptor list are a
// programmer error: implementations need not validate them at runtime.
type ParameterSet interface {
	SetParameter(addr Address, value float32)
	GetParameter(addr Address) float32
}

// DependentAddresses returns the addresses of parameters dependent on addr,
// per the matching Descriptor in descriptors, or nil if addr is unknown.
func DependentAddresses(descriptors []Descriptor, addr Address) []Address {
	for _, d := range descriptors {
		if d.Address == addr {
			return d.Dependents
		}
	}
	return nil
}

// GetDefaultState derives the default state for descriptors directly from
// their declared defaults.
func GetDefaultState(descriptors []Descriptor) State {
	state := make(State, len(descriptors))
	for _, d := range descriptors {
		state[d.Address] = d.Default()
	}
	return state
}

// GetParamState reads the current value of every declared parameter from
// set.
func GetParamState(set ParameterSet, descriptors []Descriptor) State {
	state := make(State, len(descriptors))
	for _, d := range descriptors {
		state[d.Address] = set.GetParameter(d.Address)
	}
	return state
}

// SetParamState writes every declared parameter in state into set. state
// must carry an entry for every address in descriptors: the original this
// is grounded on (kernel/Parameter.cpp's set_param_state, via state.at())
// treats a missing address as a hard contract violation rather than a
// tolerated no-op, so a missing entry here panics instead of being
// silently skipped.
func SetParamState(set ParameterSet, state State, descriptors []Descriptor) {
	for _, d := range descriptors {
		v, ok := state[d.Address]
		if !ok {
			panic(fmt.Sprintf("descriptor: SetParamState: missing state for address %v", d.Address))
		}
		set.SetParameter(d.Address, v)
	}
}

// ApplyDefaults resets set to the default state derived from descriptors.
func ApplyDefaults(set ParameterSet, descriptors []Descriptor) {
	SetParamState(set, GetDefaultState(descriptors), descriptors)
}
