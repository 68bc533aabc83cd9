// Package trace renders pkg/cpu.TraceEvent callbacks as structured log
// lines, the same job the teacher's cmd/vm did with plain log.Printf,
// generalized to the pack's structured-logging idiom via
// go.uber.org/zap.
package trace

import (
	"mipspipe/pkg/cpu"
	"mipspipe/pkg/pipeline"

	"go.uber.org/zap"
)

// Sink owns a zap logger and turns it into the callback
// pkg/cpu.CPU.SetTraceSink takes, so pkg/cpu never imports zap itself.
type Sink struct {
	log *zap.Logger
}

// NewSink wraps an already-built logger. Callers typically construct
// one with zap.NewDevelopment() or zap.NewProduction() depending on
// the verbosity cmd/mipssim was invoked with.
func NewSink(log *zap.Logger) *Sink {
	return &Sink{log: log}
}

// OnRetire is the callback to pass to pkg/cpu.CPU.SetTraceSink.
func (s *Sink) OnRetire(ev cpu.TraceEvent) {
	s.log.Info("retired",
		zap.Int("cycle", ev.Cycle),
		zap.Uint32("pc", ev.PC),
		zap.String("insn", ev.Text),
	)
}

// Summary logs the final jump/misprediction counters once a run ends.
func (s *Sink) Summary(stats pipeline.Stats) {
	var rate float64
	if stats.NumJumps > 0 {
		rate = float64(stats.NumMispredictions) / float64(stats.NumJumps)
	}
	s.log.Info("run complete",
		zap.Uint64("num_jumps", stats.NumJumps),
		zap.Uint64("num_mispredictions", stats.NumMispredictions),
		zap.Float64("misprediction_rate", rate),
	)
}

// Sync flushes any buffered log entries. Callers should defer this
// right after NewSink.
func (s *Sink) Sync() error {
	return s.log.Sync()
}
