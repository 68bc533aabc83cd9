package pipeline

import (
	"mipspipe/pkg/bypass"
	"mipspipe/pkg/isa"
	"mipspipe/pkg/port"
	"mipspipe/pkg/predictor"
	"mipspipe/pkg/regfile"
)

// Stats holds the counters the CPU driver exposes read-only:
// retired jumps/branches and how many of those mispredicted.
type Stats struct {
	NumJumps          uint64
	NumMispredictions uint64
}

// DecodeStage parses a fetched word, resolves operands (directly, by
// bypass, or by stalling), updates the scoreboard and bypass
// automaton, and for branches/jumps resolves the outcome immediately
// so a misprediction can flush Fetch before the wrong-path instruction
// does any further damage.
type DecodeStage struct {
	regfile     *regfile.RegisterFile
	bypassUnit  *bypass.Unit
	predictor   predictor.Predictor
	stats       *Stats
	exLatch     *port.Latch[ForwardMsg]
	memLatch    *port.Latch[ForwardMsg]
	selfStalled *FetchMsg
	squashNext  bool
	pendingOut  *DecodedMsg

	InFetch     *port.Port[FetchMsg]
	OutDecoded  *port.Port[DecodedMsg]
	OutFlush    *port.Port[FlushMsg]
}

// NewDecodeStage wires Decode to the shared register file, bypass
// unit, predictor, and stats it mutates, the Execute/Memory forwarding
// latches it peeks for early branch resolution, and the shared ports
// the CPU driver has wired it to.
func NewDecodeStage(rf *regfile.RegisterFile, bp *bypass.Unit, pred predictor.Predictor, stats *Stats, exLatch, memLatch *port.Latch[ForwardMsg], inFetch *port.Port[FetchMsg], outDecoded *port.Port[DecodedMsg], outFlush *port.Port[FlushMsg]) *DecodeStage {
	return &DecodeStage{
		regfile:    rf,
		bypassUnit: bp,
		predictor:  pred,
		stats:      stats,
		exLatch:    exLatch,
		memLatch:   memLatch,
		InFetch:    inFetch,
		OutDecoded: outDecoded,
		OutFlush:   outFlush,
	}
}

func resolvesAtDecode(class isa.OpClass) bool {
	switch class {
	case isa.OpClassBranch, isa.OpClassBranchVsZero, isa.OpClassJumpR, isa.OpClassJumpLinkR,
		isa.OpClassJumpJ, isa.OpClassJumpLinkJ:
		return true
	default:
		return false
	}
}

// resolveNow returns reg's current value if it is obtainable this
// cycle without waiting for Execute to run: directly from the
// register file, or by peeking an already-published forwarding latch.
// A producer still sitting in Execute this cycle has not computed its
// result yet, so the only safe answer in that case is "not ready".
func (s *DecodeStage) resolveNow(cycle int, reg isa.RegNum) (uint32, bool) {
	if reg.IsZero() {
		return 0, true
	}
	ans := s.bypassUnit.Query(reg)
	switch ans.Kind {
	case bypass.OK:
		return s.regfile.Read(reg), true
	case bypass.BypassFrom:
		switch ans.Stage {
		case bypass.StageMemory:
			if fwd, ok := s.exLatch.Peek(cycle); ok && forwardCarries(fwd, reg) {
				return forwardedValue(fwd, true, reg, 0), true
			}
		case bypass.StageWriteback:
			if fwd, ok := s.memLatch.Peek(cycle); ok && forwardCarries(fwd, reg) {
				return forwardedValue(fwd, true, reg, 0), true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// forwardCarries reports whether fwd actually contains a value for reg
// (as opposed to being a stale or empty broadcast).
func forwardCarries(fwd ForwardMsg, reg isa.RegNum) bool {
	switch {
	case reg == isa.HI:
		return fwd.HiValid
	case reg == isa.LO:
		return fwd.LoValid
	default:
		return fwd.Valid && fwd.Dst == reg
	}
}

// emit writes msg to OutDecoded, holding onto it to retry next cycle if
// the port is still full (a defensive backstop: with the ports sized
// as the CPU driver sizes them, every call here is expected to succeed
// immediately, but a saturated port must never silently drop a decoded
// instruction).
func (s *DecodeStage) emit(cycle int, msg DecodedMsg) {
	if !s.OutDecoded.Write(cycle, msg) {
		m := msg
		s.pendingOut = &m
	}
}

// Clock runs one cycle of Decode.
func (s *DecodeStage) Clock(cycle int) {
	if s.pendingOut != nil {
		if s.OutDecoded.Write(cycle, *s.pendingOut) {
			s.pendingOut = nil
		}
		return
	}

	if s.squashNext {
		s.squashNext = false
		// Fetch kept fetching down the predicted path until the flush
		// became visible to it: one word when the branch resolved the
		// cycle it arrived, two when it first self-stalled on an
		// operand. Every word already visible in the port is wrong-path
		// and must never reach Execute.
		for {
			if _, ok := s.InFetch.Read(cycle); !ok {
				break
			}
		}
		return
	}

	var msg FetchMsg
	if s.selfStalled != nil {
		msg = *s.selfStalled
		s.selfStalled = nil
	} else {
		var ok bool
		msg, ok = s.InFetch.Read(cycle)
		if !ok {
			return
		}
	}

	if msg.FI.Fault.IsFault() {
		s.emit(cycle, DecodedMsg{FI: msg.FI})
		return
	}

	fi := isa.Decode(msg.FI.Word, msg.FI.PC)
	if fi.Class == isa.OpClassUnknown {
		fi.Fault = isa.Fault{Kind: isa.FaultDecode, PC: fi.PC}
		s.emit(cycle, DecodedMsg{FI: fi})
		return
	}

	if resolvesAtDecode(fi.Class) {
		s.clockBranch(cycle, fi, msg)
		return
	}
	s.clockOrdinary(cycle, fi, msg)
}

func (s *DecodeStage) stallAndRetry(msg FetchMsg) {
	m := msg
	s.selfStalled = &m
}

func (s *DecodeStage) clockBranch(cycle int, fi isa.FuncInstr, msg FetchMsg) {
	var v1, v2 uint32
	if fi.HasSrc1 {
		var ok bool
		v1, ok = s.resolveNow(cycle, fi.Src1)
		if !ok {
			s.stallAndRetry(msg)
			return
		}
	}
	if fi.HasSrc2 {
		var ok bool
		v2, ok = s.resolveNow(cycle, fi.Src2)
		if !ok {
			s.stallAndRetry(msg)
			return
		}
	}
	fi.VSrc1, fi.VSrc2 = v1, v2

	resolved := isa.Execute(fi)
	s.stats.NumJumps++

	actualTaken := resolved.NewPC != fi.PC+4
	mispredicted := msg.Pred.PredictedTaken != actualTaken || (actualTaken && msg.Pred.PredictedTarget != resolved.NewPC)
	s.predictor.Update(msg.Pred, actualTaken, resolved.NewPC)
	if mispredicted {
		s.stats.NumMispredictions++
		s.OutFlush.Write(cycle, FlushMsg{Target: resolved.NewPC})
		s.squashNext = true
	}

	if fi.HasDst {
		s.regfile.Invalidate(fi.Dst)
		s.bypassUnit.Issue(fi.Dst, false)
	}
	// fi (not resolved) goes downstream: its operands are now final, but
	// Execute still performs the canonical, once-only run of the
	// semantics. resolved exists only so Decode can detect a
	// misprediction this cycle.
	s.emit(cycle, DecodedMsg{FI: fi})
}

func (s *DecodeStage) clockOrdinary(cycle int, fi isa.FuncInstr, msg FetchMsg) {
	var src1Bypass, src2Bypass, hiBypass, loBypass bypass.Stage

	if fi.Mnemonic == "madd" || fi.Mnemonic == "msub" {
		// madd/msub accumulate onto the current HI/LO pair; resolve
		// that read the same way an ordinary source operand is
		// resolved, before the WritesHI/WritesLO invalidation below
		// makes HI/LO look like a fresh in-flight write.
		switch ans := s.bypassUnit.Query(isa.HI); ans.Kind {
		case bypass.Stall:
			s.stallAndRetry(msg)
			return
		case bypass.BypassFrom:
			hiBypass = ans.Stage
		default:
			fi.VHi = s.regfile.Read(isa.HI)
		}
		switch ans := s.bypassUnit.Query(isa.LO); ans.Kind {
		case bypass.Stall:
			s.stallAndRetry(msg)
			return
		case bypass.BypassFrom:
			loBypass = ans.Stage
		default:
			fi.VLo = s.regfile.Read(isa.LO)
		}
	}

	if fi.HasSrc1 || fi.ReadsHI || fi.ReadsLO {
		reg := fi.Src1
		if fi.ReadsHI {
			reg = isa.HI
		} else if fi.ReadsLO {
			reg = isa.LO
		}
		ans := s.bypassUnit.Query(reg)
		switch ans.Kind {
		case bypass.Stall:
			s.stallAndRetry(msg)
			return
		case bypass.BypassFrom:
			src1Bypass = ans.Stage
		default:
			fi.VSrc1 = s.regfile.Read(reg)
		}
	}

	if fi.HasSrc2 {
		ans := s.bypassUnit.Query(fi.Src2)
		switch ans.Kind {
		case bypass.Stall:
			s.stallAndRetry(msg)
			return
		case bypass.BypassFrom:
			src2Bypass = ans.Stage
		default:
			fi.VSrc2 = s.regfile.Read(fi.Src2)
		}
	}

	if fi.HasDst {
		s.regfile.Invalidate(fi.Dst)
		s.bypassUnit.Issue(fi.Dst, fi.Class.IsLoad())
	}
	if fi.WritesHI() {
		s.regfile.Invalidate(isa.HI)
		s.bypassUnit.Issue(isa.HI, false)
	}
	if fi.WritesLO() {
		s.regfile.Invalidate(isa.LO)
		s.bypassUnit.Issue(isa.LO, false)
	}

	s.emit(cycle, DecodedMsg{FI: fi, Src1Bypass: src1Bypass, Src2Bypass: src2Bypass, HiBypass: hiBypass, LoBypass: loBypass})
}

