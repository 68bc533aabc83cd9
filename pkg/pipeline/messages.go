// Package pipeline implements the five classical stages — Fetch,
// Decode, Execute, Memory, Writeback — wired together exclusively
// through pkg/port ports and latches, per the cycle-driven, single-
// threaded discipline the simulator core requires.
package pipeline

import (
	"mipspipe/pkg/bypass"
	"mipspipe/pkg/isa"
	"mipspipe/pkg/predictor"
)

// FetchMsg is what Fetch emits: a just-fetched (and not yet decoded)
// instruction word together with the prediction made for it.
type FetchMsg struct {
	FI   isa.FuncInstr
	Pred predictor.BPInterface
}

// DecodedMsg is what Decode emits: the fully decoded instruction plus
// the bypass commands Execute must resolve before running semantics.
// A StageNone tag means the corresponding operand is already final
// (read from the register file, or not applicable to this instruction).
type DecodedMsg struct {
	FI         isa.FuncInstr
	Src1Bypass bypass.Stage
	Src2Bypass bypass.Stage

	// HiBypass/LoBypass are meaningful only for madd/msub, which
	// accumulate onto the current HI/LO pair: they tell Execute how to
	// resolve that read the same way Src1Bypass/Src2Bypass do for an
	// ordinary operand.
	HiBypass bypass.Stage
	LoBypass bypass.Stage
}

// FlushMsg carries a corrected fetch target on a misprediction flush.
type FlushMsg struct {
	Target uint32
}

// ForwardMsg is what Execute and Memory broadcast on their forwarding
// latches: the register a just-processed instruction writes, and its
// value. Valid is false for instructions with no destination, so a
// consumer never mistakes a stale zero for a real forwarded value.
// HiValid/LoValid are independent, since mthi/mtlo each write only one
// of the pair while mult/div/madd/msub write both.
type ForwardMsg struct {
	Dst   isa.RegNum
	Value uint32
	Valid bool

	Hi, Lo           uint32
	HiValid, LoValid bool
}

// TrapMsg is the termination event the Writeback stage raises for any
// faulting instruction, per the trap channel in the external interfaces.
type TrapMsg struct {
	Fault isa.Fault
}
