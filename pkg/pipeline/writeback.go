package pipeline

import (
	"mipspipe/pkg/bypass"
	"mipspipe/pkg/isa"
	"mipspipe/pkg/port"
	"mipspipe/pkg/regfile"
)

// WritebackStage commits a completed instruction's result to the
// register file, retires its scoreboard and bypass-automaton entries,
// and raises a trap for any faulting instruction (including the
// explicit halt). When writeback bandwidth is exhausted it holds the
// oldest pending instruction and retries it next cycle rather than
// accepting a newer one out of order.
type WritebackStage struct {
	regfile   *regfile.RegisterFile
	bypass    *bypass.Unit
	pending   *isa.FuncInstr
	retired   isa.FuncInstr
	didRetire bool

	InMemWb *port.Port[DecodedMsg]
	OutTrap *port.Port[TrapMsg]
}

// NewWritebackStage wires Writeback to the register file and bypass
// unit it mutates, and the shared ports the CPU driver has wired it
// to.
func NewWritebackStage(rf *regfile.RegisterFile, bp *bypass.Unit, inMemWb *port.Port[DecodedMsg], outTrap *port.Port[TrapMsg]) *WritebackStage {
	return &WritebackStage{
		regfile: rf,
		bypass:  bp,
		InMemWb: inMemWb,
		OutTrap: outTrap,
	}
}

// Clock runs one cycle of Writeback.
func (s *WritebackStage) Clock(cycle int) {
	s.didRetire = false

	var fi isa.FuncInstr
	if s.pending != nil {
		fi = *s.pending
	} else {
		msg, ok := s.InMemWb.Read(cycle)
		if !ok {
			return
		}
		fi = msg.FI
	}

	if fi.Fault.IsFault() {
		s.OutTrap.Write(cycle, TrapMsg{Fault: fi.Fault})
		s.pending = nil
		return
	}

	if !s.commit(fi) {
		f := fi
		s.pending = &f
		return
	}
	s.pending = nil
	s.retired, s.didRetire = fi, true
}

// LastRetired reports the instruction Writeback committed this cycle,
// for tracing. It reports false on a cycle with nothing to retire
// (bubble, stall, or a bandwidth-held instruction).
func (s *WritebackStage) LastRetired() (isa.FuncInstr, bool) {
	return s.retired, s.didRetire
}

// commit writes fi's result and retires its bookkeeping. It reports
// false, without mutating anything, if writeback bandwidth is
// exhausted for this cycle and fi must be retried next cycle.
func (s *WritebackStage) commit(fi isa.FuncInstr) bool {
	dsts := s.destinations(fi)
	if len(dsts) > 0 && !s.bypass.NotifyWritebackAll(dsts) {
		return false
	}

	if fi.HasDst {
		writes := true
		if fi.Mnemonic == "movn" || fi.Mnemonic == "movz" {
			writes = fi.MoveFires
		}
		if writes {
			s.regfile.Write(fi.Dst, fi.VDst)
		}
		s.regfile.Validate(fi.Dst)
	}
	if fi.WritesHI() {
		s.regfile.Write(isa.HI, fi.VHi)
		s.regfile.Validate(isa.HI)
	}
	if fi.WritesLO() {
		s.regfile.Write(isa.LO, fi.VLo)
		s.regfile.Validate(isa.LO)
	}
	return true
}

// destinations lists the registers fi retires, for the bandwidth check
// that must run (and either fully succeed or fully fail) before any
// register-file or scoreboard state is mutated.
func (s *WritebackStage) destinations(fi isa.FuncInstr) []isa.RegNum {
	var dsts []isa.RegNum
	if fi.HasDst {
		dsts = append(dsts, fi.Dst)
	}
	if fi.WritesHI() {
		dsts = append(dsts, isa.HI)
	}
	if fi.WritesLO() {
		dsts = append(dsts, isa.LO)
	}
	return dsts
}

