// Package regfile implements the architectural register file: the 32
// general-purpose registers, the HI/LO multiply/divide scratch words,
// and a scoreboard tracking which registers have an in-flight writer.
package regfile

import "mipspipe/pkg/isa"

// RegisterFile holds architectural state. The zero register always
// reads 0 and ignores writes, per the data model invariant.
const numGPR = 32

type RegisterFile struct {
	values [numGPR]uint32
	hi, lo uint32

	// inFlight is a reference count, not a bit: two instructions may
	// legitimately be in flight against the same destination register
	// (e.g. back-to-back writes before either retires), and the second
	// Invalidate must not be undone by the first instruction's
	// Validate. A register is valid iff its count is zero. hiInFlight
	// and loInFlight track the HI/LO scratch words the same way the
	// GPR array slots are tracked.
	inFlight               [numGPR]int
	hiInFlight, loInFlight int
}

// New returns a register file reset to its initial state: all
// registers zero and valid.
func New() *RegisterFile {
	return &RegisterFile{}
}

// Read returns the current value of r, or 0 for the zero register.
// isa.HI and isa.LO route to the scratch words rather than the GPR
// array slots reserved for them.
func (rf *RegisterFile) Read(r isa.RegNum) uint32 {
	switch {
	case r == isa.HI:
		return rf.hi
	case r == isa.LO:
		return rf.lo
	case r.IsZero() || int(r) >= numGPR:
		return 0
	default:
		return rf.values[r]
	}
}

// Write stores v into r; writes to the zero register are ignored.
func (rf *RegisterFile) Write(r isa.RegNum, v uint32) {
	switch {
	case r == isa.HI:
		rf.hi = v
	case r == isa.LO:
		rf.lo = v
	case r.IsZero() || int(r) >= numGPR:
		return
	default:
		rf.values[r] = v
	}
}

// HI returns the current HI scratch word.
func (rf *RegisterFile) HI() uint32 { return rf.hi }

// LO returns the current LO scratch word.
func (rf *RegisterFile) LO() uint32 { return rf.lo }

// IsValid reports whether r has no in-flight writer. The zero register
// is always valid.
func (rf *RegisterFile) IsValid(r isa.RegNum) bool {
	switch {
	case r == isa.HI:
		return rf.hiInFlight == 0
	case r == isa.LO:
		return rf.loInFlight == 0
	case r.IsZero() || int(r) >= numGPR:
		return true
	default:
		return rf.inFlight[r] == 0
	}
}

// Invalidate marks r as having one more in-flight writer. Called by
// Decode when it issues an instruction whose destination is r. A no-op
// for the zero register, which is never invalidated.
func (rf *RegisterFile) Invalidate(r isa.RegNum) {
	switch {
	case r == isa.HI:
		rf.hiInFlight++
	case r == isa.LO:
		rf.loInFlight++
	case r.IsZero() || int(r) >= numGPR:
		return
	default:
		rf.inFlight[r]++
	}
}

// Validate removes one in-flight writer from r. Called by Writeback
// when an instruction targeting r retires, whether or not it actually
// wrote a new value (a movn/movz whose condition did not fire still
// revalidates the scoreboard entry it optimistically invalidated at
// Decode). The count never goes negative.
func (rf *RegisterFile) Validate(r isa.RegNum) {
	switch {
	case r == isa.HI:
		if rf.hiInFlight > 0 {
			rf.hiInFlight--
		}
	case r == isa.LO:
		if rf.loInFlight > 0 {
			rf.loInFlight--
		}
	case r.IsZero() || int(r) >= numGPR:
		return
	default:
		if rf.inFlight[r] > 0 {
			rf.inFlight[r]--
		}
	}
}

// Reset restores the register file to its initial state: every
// register 0, HI/LO 0, and every scoreboard entry valid. Register
// contents are not preserved; ResetScoreboard is the variant that
// clears only the in-flight counts.
func (rf *RegisterFile) Reset() {
	*rf = RegisterFile{}
}

// ResetScoreboard clears every in-flight count without touching
// register contents. A pipeline flush drops every in-flight
// instruction, so whatever counts Decode had accumulated against
// not-yet-retired destinations no longer correspond to anything; the
// surviving architectural state (the values already written back) is
// by definition fully valid.
func (rf *RegisterFile) ResetScoreboard() {
	rf.inFlight = [numGPR]int{}
	rf.hiInFlight, rf.loInFlight = 0, 0
}
