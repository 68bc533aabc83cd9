// Package isa contains the instruction model for the pipeline core: the
// three MIPS-style instruction formats, the decoded instruction object
// FuncInstr, the ISA table, execute semantics, and disassembly.
//
// See the documentation of the pkg/pipeline package for how instructions
// decoded here flow through the five classical pipeline stages.
package isa

import "fmt"

// RegNum names a general-purpose register. R0 always reads as zero and
// ignores writes; HI and LO are the two auxiliary scratch words used by
// multiply/divide.
type RegNum uint8

// The 32 general purpose registers plus the HI/LO scratch words.
const (
	R0 RegNum = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	R16
	R17
	R18
	R19
	R20
	R21
	R22
	R23
	R24
	R25
	R26
	R27
	R28
	R29
	R30
	R31

	HI
	LO

	// NumRegisters is the number of register-file slots: 32 GPRs plus HI/LO.
	NumRegisters = int(LO) + 1
)

// RA is the conventional return-address register used by jal/jalr.
const RA = R31

// SP is the conventional stack-pointer register.
const SP = R29

var regNames = [NumRegisters]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
	"hi", "lo",
}

// String renders a register in the conventional "$name" assembly form.
func (r RegNum) String() string {
	if int(r) < len(regNames) {
		return "$" + regNames[r]
	}
	return fmt.Sprintf("$?%d", uint8(r))
}

// IsZero reports whether r is the always-zero register.
func (r RegNum) IsZero() bool {
	return r == R0
}
