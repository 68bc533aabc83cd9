package isa

import "fmt"

// FaultKind enumerates the error taxonomy: decode errors, bus errors,
// arithmetic traps, and software traps. Configuration errors are not a
// FaultKind because they are fatal at port-graph construction time and
// never ride inside a FuncInstr; they use plain Go errors (see the
// errors returned by pkg/port's RegisterWriter and Graph.Validate).
type FaultKind uint8

const (
	// FaultNone means the instruction did not fault.
	FaultNone FaultKind = iota
	// FaultDecode is an unknown opcode/funct combination.
	FaultDecode
	// FaultBus is an unaligned or out-of-range memory access.
	FaultBus
	// FaultArithmetic is signed overflow on add/sub/addi, or divide-by-zero.
	FaultArithmetic
	// FaultSyscall is the syscall instruction.
	FaultSyscall
	// FaultBreak is the break instruction.
	FaultBreak
	// FaultTrap is the trap (teq) instruction.
	FaultTrap
	// FaultHalt is not an error: it is the driver's normal termination signal.
	FaultHalt
)

// Fault is attached to a FuncInstr when its execution does not complete
// normally. It rides inside the instruction across port boundaries as
// plain data (ports carry values, not error interfaces) and is only
// turned into a Go error at the edges (CPU driver, tests).
type Fault struct {
	Kind FaultKind
	PC   uint32
	Addr uint32 // meaningful for FaultBus
	Arg  uint32 // meaningful for FaultSyscall (syscall number)
}

// IsFault reports whether f represents an actual fault (as opposed to
// the FaultNone zero value).
func (f Fault) IsFault() bool {
	return f.Kind != FaultNone
}

func (f Fault) Error() string {
	switch f.Kind {
	case FaultNone:
		return "no fault"
	case FaultDecode:
		return fmt.Sprintf("decode error at pc=0x%08x", f.PC)
	case FaultBus:
		return fmt.Sprintf("bus error at pc=0x%08x addr=0x%08x", f.PC, f.Addr)
	case FaultArithmetic:
		return fmt.Sprintf("arithmetic trap at pc=0x%08x", f.PC)
	case FaultSyscall:
		return fmt.Sprintf("syscall(%d) at pc=0x%08x", f.Arg, f.PC)
	case FaultBreak:
		return fmt.Sprintf("break at pc=0x%08x", f.PC)
	case FaultTrap:
		return fmt.Sprintf("trap at pc=0x%08x", f.PC)
	case FaultHalt:
		return fmt.Sprintf("halt at pc=0x%08x", f.PC)
	default:
		return fmt.Sprintf("unknown fault kind %d at pc=0x%08x", f.Kind, f.PC)
	}
}
