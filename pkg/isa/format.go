package isa

// Format names which of the three bitfield views a 32-bit instruction
// word uses. Rather than modeling the formats as a union of overlapping
// C-style bitfields, format is a plain enum and the fields are extracted
// by the functions below operating directly on the raw word.
type Format uint8

const (
	// FormatR is {opcode:6, rs:5, rt:5, rd:5, shamt:5, funct:6}.
	FormatR Format = iota
	// FormatI is {opcode:6, rs:5, rt:5, imm:16}.
	FormatI
	// FormatJ is {opcode:6, imm:26}.
	FormatJ
)

// Opcode extracts the 6-bit opcode field common to every format.
func Opcode(word uint32) uint32 {
	return (word >> 26) & 0x3F
}

// Rs extracts the 5-bit rs field (R and I formats).
func Rs(word uint32) RegNum {
	return RegNum((word >> 21) & 0x1F)
}

// Rt extracts the 5-bit rt field (R and I formats).
func Rt(word uint32) RegNum {
	return RegNum((word >> 16) & 0x1F)
}

// Rd extracts the 5-bit rd field (R format).
func Rd(word uint32) RegNum {
	return RegNum((word >> 11) & 0x1F)
}

// Shamt extracts the 5-bit shift-amount field (R format).
func Shamt(word uint32) uint32 {
	return (word >> 6) & 0x1F
}

// Funct extracts the 6-bit funct field (R format).
func Funct(word uint32) uint32 {
	return word & 0x3F
}

// Imm16 extracts the raw 16-bit immediate field (I format).
func Imm16(word uint32) uint32 {
	return word & 0xFFFF
}

// Imm26 extracts the raw 26-bit immediate field (J format).
func Imm26(word uint32) uint32 {
	return word & 0x3FFFFFF
}

// SignExtend16 sign-extends a 16-bit value to 32 bits.
func SignExtend16(v uint32) uint32 {
	return uint32(int32(int16(v)))
}

// SignExtendTrunc16 truncates v to 16 bits then sign-extends; it exists
// to make the round-trip property sign_extend(truncate16(x)) ==
// sign_extend(x & 0xFFFF) explicit and testable.
func SignExtendTrunc16(v uint32) uint32 {
	return SignExtend16(v & 0xFFFF)
}

// ZeroExtend16 zero-extends a 16-bit value to 32 bits (used by the
// I-form bitwise immediates andi/ori/xori).
func ZeroExtend16(v uint32) uint32 {
	return v & 0xFFFF
}
