// Package config parses the microarchitectural parameters a simulator
// run takes from a TOML file, grounded on lookbusy1344-arm_emulator's
// own use of github.com/BurntSushi/toml for its emulator configuration.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is every parameter cmd/mipssim can load from a file instead
// of hardcoding. A PortLatency or WritebackBandwidth below 1 is raised
// to 1 (the pkg/cpu.DefaultParams value) by cpu.New; the other fields
// have no such fallback and are used as given.
type Config struct {
	// PortLatency is the cycle delay on every inter-stage port and
	// forwarding latch.
	PortLatency int `toml:"port_latency"`
	// WritebackBandwidth caps retirements per cycle.
	WritebackBandwidth int `toml:"writeback_bandwidth"`
	// MemorySize is the flat memory's capacity in bytes.
	MemorySize uint32 `toml:"memory_size"`
	// Predictor selects the branch predictor: "static" (always not
	// taken) or "btb2bit" (direct-mapped BTB with 2-bit counters).
	Predictor string `toml:"predictor"`
	// BTBEntries sizes the BTB when Predictor is "btb2bit".
	BTBEntries int `toml:"btb_entries"`
	// MaxCycles bounds how long Run executes before giving up.
	MaxCycles int `toml:"max_cycles"`
}

// Default returns the configuration a run uses when no file is given.
func Default() Config {
	return Config{
		PortLatency:        1,
		WritebackBandwidth: 1,
		MemorySize:         1 << 20,
		Predictor:          "static",
		BTBEntries:         256,
		MaxCycles:          1_000_000,
	}
}

// Load parses the TOML file at path into a Config seeded with
// Default's values, so an omitted field keeps its default rather than
// zeroing out.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
