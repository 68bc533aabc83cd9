// Package cpu assembles pkg/isa, pkg/port, pkg/regfile, pkg/bypass,
// pkg/predictor, pkg/mem, and pkg/pipeline into the top-level driver:
// it wires every inter-stage port and forwarding latch, validates the
// resulting port graph once at construction, and steps the five
// stages in fixed order, one clock tick at a time.
package cpu

import (
	"errors"
	"fmt"

	"mipspipe/pkg/bypass"
	"mipspipe/pkg/isa"
	"mipspipe/pkg/mem"
	"mipspipe/pkg/pipeline"
	"mipspipe/pkg/port"
	"mipspipe/pkg/predictor"
	"mipspipe/pkg/regfile"
)

// Params holds every microarchitectural parameter the core packages
// take as constructor arguments. internal/config is what actually
// parses these from a file; cpu.New only ever sees plain values.
type Params struct {
	// PortLatency is the cycle delay applied to every inter-stage port
	// and forwarding latch (1 models a classic single-cycle-per-stage
	// pipeline, the only value the six literal scenarios exercise).
	PortLatency int
	// WritebackBandwidth caps how many instructions may retire in a
	// single cycle.
	WritebackBandwidth int
}

// DefaultParams returns the parameters a single-issue, one-cycle-per-
// stage pipeline uses unless overridden.
func DefaultParams() Params {
	return Params{PortLatency: 1, WritebackBandwidth: 1}
}

func (p Params) normalized() Params {
	if p.PortLatency < 1 {
		p.PortLatency = 1
	}
	if p.WritebackBandwidth < 1 {
		p.WritebackBandwidth = 1
	}
	return p
}

// TraceEvent is emitted through the hook SetTraceSink installs, once
// per instruction retired at Writeback.
type TraceEvent struct {
	Cycle int
	PC    uint32
	Text  string
}

// CPU is the assembled five-stage pipeline plus the architectural
// state (register file, bypass automaton) the stages share.
type CPU struct {
	fetch     *pipeline.FetchStage
	decode    *pipeline.DecodeStage
	execute   *pipeline.ExecuteStage
	memory    *pipeline.MemoryStage
	writeback *pipeline.WritebackStage
	bypass    *bypass.Unit
	regfile   *regfile.RegisterFile
	stats     *pipeline.Stats
	trapPort  *port.Port[pipeline.TrapMsg]

	cycle     int
	traceSink func(TraceEvent)
}

// New constructs a CPU starting execution at entry, reading/writing m,
// consulting pred for branch prediction, and wired per params. It
// returns an error if the port graph fails validation — a
// configuration error, fatal before any cycle runs.
func New(entry uint32, m *mem.FlatMemory, pred predictor.Predictor, params Params) (*CPU, error) {
	params = params.normalized()
	lat := params.PortLatency

	// A pipeline FIFO port's occupancy in steady state is lat in-flight
	// messages (written but not yet visible) plus the one about to be
	// written this cycle: bandwidth lat+1 is what lets every stage write
	// every cycle without waiting on its reader to have drained first,
	// so the fixed per-cycle stage call order stays the non-observable
	// detail §5 requires instead of silently halving throughput. A stage
	// that skips reading its input (Decode while it re-processes a
	// self-stalled message, or any stage holding a pendingOut) lets its
	// input port fill to lat+1, and the upstream writer's failed Write
	// then stalls it, so the extra slack does not hide a structural
	// hazard; it only absorbs the latency pipeline delay.
	fifoBandwidth := lat + 1
	fetchPort := port.New[pipeline.FetchMsg]("fetch", lat, fifoBandwidth)
	flushPort := port.New[pipeline.FlushMsg]("flush_fetch", lat, 1)
	decodedPort := port.New[pipeline.DecodedMsg]("decoded", lat, fifoBandwidth)
	exMemPort := port.New[pipeline.DecodedMsg]("ex_mem", lat, fifoBandwidth)
	memWbPort := port.New[pipeline.DecodedMsg]("mem_wb", lat, fifoBandwidth)
	trapPort := port.New[pipeline.TrapMsg]("trap", lat, 1)
	fwdExecute := port.NewLatch[pipeline.ForwardMsg]("fwd_execute", lat)
	fwdMemory := port.NewLatch[pipeline.ForwardMsg]("fwd_memory", lat)

	rf := regfile.New()
	bp := bypass.New(params.WritebackBandwidth)
	stats := &pipeline.Stats{}

	fetch := pipeline.NewFetchStage(entry, m, pred, fetchPort, flushPort)
	decode := pipeline.NewDecodeStage(rf, bp, pred, stats, fwdExecute, fwdMemory, fetchPort, decodedPort, flushPort)
	execute := pipeline.NewExecuteStage(rf, bp, fwdMemory, decodedPort, exMemPort, fwdExecute)
	memory := pipeline.NewMemoryStage(m, bp, exMemPort, memWbPort, fwdMemory)
	writeback := pipeline.NewWritebackStage(rf, bp, memWbPort, trapPort)

	g := port.NewGraph()
	if err := errors.Join(
		port.RegisterWriter(g, fetchPort),
		port.RegisterWriter(g, flushPort),
		port.RegisterWriter(g, decodedPort),
		port.RegisterWriter(g, exMemPort),
		port.RegisterWriter(g, memWbPort),
		port.RegisterWriter(g, trapPort),
		port.RegisterWriter(g, fwdExecute),
		port.RegisterWriter(g, fwdMemory),
	); err != nil {
		return nil, fmt.Errorf("cpu: %w", err)
	}
	port.RegisterReader(g, fetchPort)  // Decode
	port.RegisterReader(g, flushPort)  // Fetch
	port.RegisterReader(g, decodedPort) // Execute
	port.RegisterReader(g, exMemPort)  // Memory
	port.RegisterReader(g, memWbPort)  // Writeback
	port.RegisterReader(g, trapPort)   // CPU driver
	port.RegisterReader(g, fwdExecute) // Execute (self), Decode
	port.RegisterReader(g, fwdExecute)
	port.RegisterReader(g, fwdMemory) // Execute, Decode
	port.RegisterReader(g, fwdMemory)

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("cpu: %w", err)
	}

	return &CPU{
		fetch:     fetch,
		decode:    decode,
		execute:   execute,
		memory:    memory,
		writeback: writeback,
		bypass:    bp,
		regfile:   rf,
		stats:     stats,
		trapPort:  trapPort,
	}, nil
}

// SetTraceSink installs a callback invoked once for every instruction
// Writeback retires. Passing nil disables tracing.
func (c *CPU) SetTraceSink(sink func(TraceEvent)) {
	c.traceSink = sink
}

// Cycle reports the current cycle count.
func (c *CPU) Cycle() int { return c.cycle }

// Stats reports the jump/misprediction counters accumulated so far.
func (c *CPU) Stats() pipeline.Stats { return *c.stats }

// RegisterFile exposes the architectural register file for inspection
// (tests, tracing), never for mutation from outside the pipeline.
func (c *CPU) RegisterFile() *regfile.RegisterFile { return c.regfile }

// Step runs exactly one cycle: Fetch, Decode, Execute, Memory,
// Writeback, in that fixed order, then checks the trap port. It
// returns the fault that ended execution, if any (FaultHalt included);
// done is false while execution should continue.
func (c *CPU) Step() (fault isa.Fault, done bool) {
	c.bypass.BeginCycle()

	c.fetch.Clock(c.cycle)
	c.decode.Clock(c.cycle)
	c.execute.Clock(c.cycle)
	c.memory.Clock(c.cycle)
	c.writeback.Clock(c.cycle)

	if retired, ok := c.writeback.LastRetired(); ok && c.traceSink != nil {
		c.traceSink(TraceEvent{Cycle: c.cycle, PC: retired.PC, Text: isa.Disassemble(retired)})
	}

	var trapped isa.Fault
	if msg, ok := c.trapPort.Read(c.cycle); ok {
		trapped = msg.Fault
	}

	c.cycle++

	if trapped.IsFault() {
		return trapped, true
	}
	return isa.Fault{}, false
}

// Run steps the CPU until a fault (including halt) is raised or
// maxCycles is reached, whichever comes first. It returns the
// terminating fault; a FaultHalt is the normal, successful outcome and
// is not wrapped as an error. Any other fault is also returned as a
// Go error via Fault's own Error() method, since §7 treats faults as
// plain data that only becomes an error at this outer edge.
func (c *CPU) Run(maxCycles int) (isa.Fault, error) {
	for i := 0; i < maxCycles; i++ {
		fault, done := c.Step()
		if done {
			if fault.Kind == isa.FaultHalt {
				return fault, nil
			}
			return fault, fault
		}
	}
	return isa.Fault{}, fmt.Errorf("cpu: exceeded %d cycles without halting", maxCycles)
}
