// Package bypass implements the data forwarding automaton: for each
// register, it tracks which pipeline stage the most recent in-flight
// writer currently occupies, and answers Decode's query for a source
// operand with either a direct register-file read, a forwarded value
// from a later stage, or a stall.
package bypass

import "mipspipe/pkg/isa"

// Stage names a pipeline stage an in-flight writer can be forwarded
// from.
type Stage uint8

const (
	// StageNone means there is nothing to forward; read the register
	// file directly.
	StageNone Stage = iota
	StageExecute
	StageMemory
	StageWriteback
)

// String renders the stage name for tracing.
func (s Stage) String() string {
	switch s {
	case StageExecute:
		return "execute"
	case StageMemory:
		return "memory"
	case StageWriteback:
		return "writeback"
	default:
		return "none"
	}
}

// AnswerKind is the three-way outcome of a Decode query.
type AnswerKind uint8

const (
	// OK means the register file already holds the current value.
	OK AnswerKind = iota
	// BypassFrom means forward from the named stage's output latch.
	BypassFrom
	// Stall means the producer is not yet far enough along to forward;
	// Decode must not issue this cycle.
	Stall
)

// Answer is the bypass unit's response to a source-operand query.
type Answer struct {
	Kind  AnswerKind
	Stage Stage
}

type state uint8

const (
	idle state = iota
	inExecute
	inMemory
	inWriteback
)

type entry struct {
	state  state
	isLoad bool
}

// Unit is the forwarding automaton, one entry per register (GPRs plus
// HI/LO, indexed the same way as the register file).
type Unit struct {
	entries [isa.NumRegisters]entry

	// wbBandwidth caps how many instructions may retire (transition
	// inWriteback -> idle) in a single cycle; the CPU driver surfaces
	// this as a construction parameter.
	wbBandwidth int
	wbThisCycle int
}

// New returns a bypass unit with every register idle, and the given
// writeback bandwidth (instructions retiring per cycle).
func New(wbBandwidth int) *Unit {
	if wbBandwidth < 1 {
		wbBandwidth = 1
	}
	return &Unit{wbBandwidth: wbBandwidth}
}

// Issue records that Decode has just issued an instruction whose
// destination is dst; the producer is now heading into Execute.
// isLoad marks a load, whose value is not available for forwarding
// until it reaches the Memory stage's output, unlike an ALU result
// which becomes available at Execute's output.
func (u *Unit) Issue(dst isa.RegNum, isLoad bool) {
	if dst.IsZero() || int(dst) >= len(u.entries) {
		return
	}
	u.entries[dst] = entry{state: inExecute, isLoad: isLoad}
}

// NotifyExecute advances dst's automaton from in-Execute to in-Memory,
// called by the Execute stage once it has produced a result (or, for
// a load, once it has computed the effective address).
func (u *Unit) NotifyExecute(dst isa.RegNum) {
	u.advance(dst, inExecute, inMemory)
}

// NotifyMemory advances dst's automaton from in-Memory to
// in-Writeback, called by the Memory stage once it has passed the
// instruction through (and, for a load, filled in the loaded value).
func (u *Unit) NotifyMemory(dst isa.RegNum) {
	u.advance(dst, inMemory, inWriteback)
}

// BeginCycle resets the per-cycle writeback bandwidth counter; the CPU
// driver calls this once before running the stages for a new cycle.
func (u *Unit) BeginCycle() {
	u.wbThisCycle = 0
}

// NotifyWritebackAll retires every register in dsts as a single
// writeback event (mult/div retire HI and LO together), consuming one
// unit of bandwidth rather than one per register. It reports false,
// retiring nothing, if that one unit is not available this cycle.
func (u *Unit) NotifyWritebackAll(dsts []isa.RegNum) bool {
	if u.wbThisCycle >= u.wbBandwidth {
		return false
	}
	u.wbThisCycle++
	for _, dst := range dsts {
		if dst.IsZero() || int(dst) >= len(u.entries) {
			continue
		}
		u.entries[dst] = entry{}
	}
	return true
}

func (u *Unit) advance(dst isa.RegNum, from, to state) {
	if dst.IsZero() || int(dst) >= len(u.entries) {
		return
	}
	if u.entries[dst].state == from {
		u.entries[dst].state = to
	}
}

// Query answers what Decode should do to obtain src's operand value.
func (u *Unit) Query(src isa.RegNum) Answer {
	if src.IsZero() || int(src) >= len(u.entries) {
		return Answer{Kind: OK}
	}
	e := u.entries[src]
	switch e.state {
	case idle:
		return Answer{Kind: OK}
	case inExecute:
		if e.isLoad {
			return Answer{Kind: Stall}
		}
		return Answer{Kind: BypassFrom, Stage: StageExecute}
	case inMemory:
		return Answer{Kind: BypassFrom, Stage: StageMemory}
	case inWriteback:
		return Answer{Kind: BypassFrom, Stage: StageWriteback}
	default:
		return Answer{Kind: OK}
	}
}

// Flush resets every register's automaton to idle and clears the
// per-cycle writeback counter. Scoreboard revalidation against
// surviving architectural state is the caller's responsibility (the
// register file's ResetScoreboard), since the bypass unit holds no
// register values of its own.
func (u *Unit) Flush() {
	u.entries = [isa.NumRegisters]entry{}
	u.wbThisCycle = 0
}
