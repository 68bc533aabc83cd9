package pipeline

import (
	"mipspipe/pkg/isa"
	"mipspipe/pkg/mem"
	"mipspipe/pkg/port"
	"mipspipe/pkg/predictor"
)

// FetchStage consults the branch predictor, reads the instruction word
// at the current PC from memory, and emits both on OutFetch. It has no
// hidden state beyond PC: a failed write (the downstream port still
// full because Decode has not drained it) is itself the backpressure
// signal that keeps Fetch from overrunning a stalled Decode, so Fetch
// needs no separate stall input.
type FetchStage struct {
	pc        uint32
	memory    *mem.FlatMemory
	predictor predictor.Predictor

	OutFetch *port.Port[FetchMsg]
	InFlush  *port.Port[FlushMsg]
}

// NewFetchStage constructs Fetch with its starting PC, the memory it
// reads from, the predictor it consults, and the shared ports the CPU
// driver has wired it to.
func NewFetchStage(entry uint32, m *mem.FlatMemory, p predictor.Predictor, outFetch *port.Port[FetchMsg], inFlush *port.Port[FlushMsg]) *FetchStage {
	return &FetchStage{
		pc:        entry,
		memory:    m,
		predictor: p,
		OutFetch:  outFetch,
		InFlush:   inFlush,
	}
}

// PC reports Fetch's current program counter, for tracing.
func (s *FetchStage) PC() uint32 { return s.pc }

// Clock runs one cycle of Fetch.
func (s *FetchStage) Clock(cycle int) {
	if flush, ok := s.InFlush.Read(cycle); ok {
		s.pc = flush.Target
		return
	}

	var fi isa.FuncInstr
	word, err := s.memory.ReadWord(s.pc)
	if err != nil {
		fi = isa.FuncInstr{PC: s.pc, Fault: isa.Fault{Kind: isa.FaultBus, PC: s.pc, Addr: s.pc}}
	} else {
		fi = isa.FuncInstr{Word: word, PC: s.pc}
	}

	pred := s.predictor.Predict(s.pc)
	if !s.OutFetch.Write(cycle, FetchMsg{FI: fi, Pred: pred}) {
		return // Decode has not drained; retry the same PC next cycle.
	}
	s.pc = pred.PredictedTarget
}
