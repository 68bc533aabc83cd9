package pipeline

import (
	"mipspipe/pkg/bypass"
	"mipspipe/pkg/isa"
	"mipspipe/pkg/port"
)

// ExecuteStage resolves any operand Decode deferred, runs the
// instruction's ALU/branch/address semantics via isa.Execute, and
// broadcasts its result on FwdOut for the next cycle's consumer (if
// any) to pick up.
type ExecuteStage struct {
	regfile    regfileReader
	bypass     *bypass.Unit
	memLatch   *port.Latch[ForwardMsg] // last cycle's Memory-stage output
	pendingOut *DecodedMsg

	InDecoded *port.Port[DecodedMsg]
	OutExMem  *port.Port[DecodedMsg]
	FwdOut    *port.Latch[ForwardMsg] // this stage's own output, for next cycle
}

// regfileReader is the read-only slice of *regfile.RegisterFile that
// Execute needs: resolving a StageWriteback-tagged operand by reading
// the architectural value committed one or more cycles ago.
type regfileReader interface {
	Read(r isa.RegNum) uint32
}

// NewExecuteStage wires Execute to the shared bypass unit, the
// register file it falls back to for writeback-stage bypass answers,
// the Memory stage's forwarding latch it peeks for its own
// memory-stage bypass answers, and the shared ports/latch the CPU
// driver has wired it to.
func NewExecuteStage(rf regfileReader, bp *bypass.Unit, memLatch *port.Latch[ForwardMsg], inDecoded *port.Port[DecodedMsg], outExMem *port.Port[DecodedMsg], fwdOut *port.Latch[ForwardMsg]) *ExecuteStage {
	return &ExecuteStage{
		regfile:   rf,
		bypass:    bp,
		memLatch:  memLatch,
		InDecoded: inDecoded,
		OutExMem:  outExMem,
		FwdOut:    fwdOut,
	}
}

func forwardedValue(fwd ForwardMsg, ok bool, reg isa.RegNum, fallback uint32) uint32 {
	if !ok {
		return fallback
	}
	switch {
	case reg == isa.HI && fwd.HiValid:
		return fwd.Hi
	case reg == isa.LO && fwd.LoValid:
		return fwd.Lo
	case fwd.Valid && fwd.Dst == reg:
		return fwd.Value
	default:
		return fallback
	}
}

func (s *ExecuteStage) resolve(cycle int, bypassTag bypass.Stage, reg isa.RegNum, fallback uint32) uint32 {
	switch bypassTag {
	case bypass.StageNone:
		return fallback
	case bypass.StageExecute:
		fwd, ok := s.FwdOut.Peek(cycle)
		return forwardedValue(fwd, ok, reg, fallback)
	case bypass.StageMemory:
		fwd, ok := s.memLatch.Peek(cycle)
		return forwardedValue(fwd, ok, reg, fallback)
	case bypass.StageWriteback:
		return s.regfile.Read(reg)
	default:
		return fallback
	}
}

// emit writes msg to OutExMem, holding onto it to retry next cycle if
// the port is still full (a defensive backstop; see DecodeStage.emit).
func (s *ExecuteStage) emit(cycle int, msg DecodedMsg) {
	if !s.OutExMem.Write(cycle, msg) {
		m := msg
		s.pendingOut = &m
	}
}

// Clock runs one cycle of Execute.
func (s *ExecuteStage) Clock(cycle int) {
	if s.pendingOut != nil {
		if s.OutExMem.Write(cycle, *s.pendingOut) {
			s.pendingOut = nil
		}
		return
	}

	msg, ok := s.InDecoded.Read(cycle)
	if !ok {
		s.FwdOut.Clear()
		return
	}

	fi := msg.FI
	if fi.Fault.IsFault() {
		s.FwdOut.Clear()
		s.emit(cycle, DecodedMsg{FI: fi})
		return
	}

	if fi.HasSrc1 || fi.ReadsHI || fi.ReadsLO {
		reg := fi.Src1
		if fi.ReadsHI {
			reg = isa.HI
		} else if fi.ReadsLO {
			reg = isa.LO
		}
		fi.VSrc1 = s.resolve(cycle, msg.Src1Bypass, reg, fi.VSrc1)
	}
	if fi.HasSrc2 {
		fi.VSrc2 = s.resolve(cycle, msg.Src2Bypass, fi.Src2, fi.VSrc2)
	}
	if fi.Mnemonic == "madd" || fi.Mnemonic == "msub" {
		fi.VHi = s.resolve(cycle, msg.HiBypass, isa.HI, fi.VHi)
		fi.VLo = s.resolve(cycle, msg.LoBypass, isa.LO, fi.VLo)
	}

	fi = isa.Execute(fi)

	if fi.Fault.IsFault() {
		s.FwdOut.Clear()
		s.emit(cycle, DecodedMsg{FI: fi})
		return
	}

	fwd := ForwardMsg{}
	if fi.HasDst && !fi.Class.IsLoad() {
		fwd = ForwardMsg{Dst: fi.Dst, Value: fi.VDst, Valid: true}
		s.bypass.NotifyExecute(fi.Dst)
	} else if fi.HasDst {
		// Load: address known, value not available until Memory runs.
		s.bypass.NotifyExecute(fi.Dst)
	}
	if fi.WritesHI() {
		fwd.Hi, fwd.HiValid = fi.VHi, true
		s.bypass.NotifyExecute(isa.HI)
	}
	if fi.WritesLO() {
		fwd.Lo, fwd.LoValid = fi.VLo, true
		s.bypass.NotifyExecute(isa.LO)
	}
	s.FwdOut.Write(cycle, fwd)

	s.emit(cycle, DecodedMsg{FI: fi})
}
