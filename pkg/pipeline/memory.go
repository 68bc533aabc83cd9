package pipeline

import (
	"mipspipe/pkg/bypass"
	"mipspipe/pkg/isa"
	"mipspipe/pkg/mem"
	"mipspipe/pkg/port"
)

// MemoryStage performs the actual load/store access Execute only
// computed the address for, and re-broadcasts every instruction's
// result (loads, and pass-through ALU values alike) on FwdOut so a
// consumer two stages behind can still pick it up after Execute's own
// latch has moved on to something else.
type MemoryStage struct {
	memory     *mem.FlatMemory
	bypass     *bypass.Unit
	pendingOut *DecodedMsg

	InExMem  *port.Port[DecodedMsg]
	OutMemWb *port.Port[DecodedMsg]
	FwdOut   *port.Latch[ForwardMsg]
}

// NewMemoryStage wires Memory to the flat memory it accesses, the
// bypass unit it advances, and the shared ports/latch the CPU driver
// has wired it to.
func NewMemoryStage(m *mem.FlatMemory, bp *bypass.Unit, inExMem *port.Port[DecodedMsg], outMemWb *port.Port[DecodedMsg], fwdOut *port.Latch[ForwardMsg]) *MemoryStage {
	return &MemoryStage{
		memory:   m,
		bypass:   bp,
		InExMem:  inExMem,
		OutMemWb: outMemWb,
		FwdOut:   fwdOut,
	}
}

func signExtend(v uint32, size uint32) uint32 {
	switch size {
	case 1:
		return uint32(int32(int8(v)))
	case 2:
		return uint32(int32(int16(v)))
	default:
		return v
	}
}

// emit writes msg to OutMemWb, holding onto it to retry next cycle if
// the port is still full (a defensive backstop; see DecodeStage.emit).
func (s *MemoryStage) emit(cycle int, msg DecodedMsg) {
	if !s.OutMemWb.Write(cycle, msg) {
		m := msg
		s.pendingOut = &m
	}
}

// Clock runs one cycle of Memory.
func (s *MemoryStage) Clock(cycle int) {
	if s.pendingOut != nil {
		if s.OutMemWb.Write(cycle, *s.pendingOut) {
			s.pendingOut = nil
		}
		return
	}

	msg, ok := s.InExMem.Read(cycle)
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

	switch fi.Class {
	case isa.OpClassLoad, isa.OpClassLoadUnsigned:
		raw, err := s.memory.Read(fi.MemAddr, fi.MemSize)
		if err != nil {
			fi.Fault = isa.Fault{Kind: isa.FaultBus, PC: fi.PC, Addr: fi.MemAddr}
			s.FwdOut.Clear()
			s.emit(cycle, DecodedMsg{FI: fi})
			return
		}
		var word uint32
		for i := len(raw) - 1; i >= 0; i-- {
			word = word<<8 | uint32(raw[i])
		}
		if fi.MemSigned {
			word = signExtend(word, fi.MemSize)
		}
		fi.VDst = word
	case isa.OpClassStore:
		if err := s.memory.WriteWord(fi.MemAddr, fi.MemSize, fi.VSrc2); err != nil {
			fi.Fault = isa.Fault{Kind: isa.FaultBus, PC: fi.PC, Addr: fi.MemAddr}
			s.FwdOut.Clear()
			s.emit(cycle, DecodedMsg{FI: fi})
			return
		}
	}

	fwd := ForwardMsg{}
	if fi.HasDst {
		fwd = ForwardMsg{Dst: fi.Dst, Value: fi.VDst, Valid: true}
		s.bypass.NotifyMemory(fi.Dst)
	}
	if fi.WritesHI() {
		fwd.Hi, fwd.HiValid = fi.VHi, true
		s.bypass.NotifyMemory(isa.HI)
	}
	if fi.WritesLO() {
		fwd.Lo, fwd.LoValid = fi.VLo, true
		s.bypass.NotifyMemory(isa.LO)
	}
	s.FwdOut.Write(cycle, fwd)

	s.emit(cycle, DecodedMsg{FI: fi})
}
