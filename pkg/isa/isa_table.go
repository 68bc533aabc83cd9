package isa

// Opcodes. SPECIAL (0) dispatches by funct; SPECIAL2 (0b011100) holds the
// multiply/accumulate family; everything else is I-type or J-type.
const (
	opcodeSPECIAL  = 0x00
	opcodeSPECIAL2 = 0x1C

	opcodeADDI  = 0x08
	opcodeADDIU = 0x09
	opcodeSLTI  = 0x0A
	opcodeSLTIU = 0x0B
	opcodeANDI  = 0x0C
	opcodeORI   = 0x0D
	opcodeXORI  = 0x0E
	opcodeLUI   = 0x0F

	opcodeBEQ  = 0x04
	opcodeBNE  = 0x05
	opcodeBLEZ = 0x06
	opcodeBGTZ = 0x07

	opcodeLB  = 0x20
	opcodeLH  = 0x21
	opcodeLWL = 0x22 // unused, reserved
	opcodeLW  = 0x23
	opcodeLBU = 0x24
	opcodeLHU = 0x25

	opcodeSB = 0x28
	opcodeSH = 0x29
	opcodeSW = 0x2B

	opcodeJ   = 0x02
	opcodeJAL = 0x03

	// opcodeHALT is not part of the MIPS I encoding; it occupies an
	// opcode value the real ISA leaves reserved, giving the simulator
	// an explicit stop instruction distinct from syscall/break/trap.
	opcodeHALT = 0x3F
)

// Funct codes within opcodeSPECIAL.
const (
	functSLL  = 0x00
	functSRL  = 0x02
	functSRA  = 0x03
	functSLLV = 0x04
	functSRLV = 0x06
	functSRAV = 0x07

	functJR   = 0x08
	functJALR = 0x09

	functMOVZ = 0x0A
	functMOVN = 0x0B

	functSYSCALL = 0x0C
	functBREAK   = 0x0D

	functMFHI = 0x10
	functMTHI = 0x11
	functMFLO = 0x12
	functMTLO = 0x13

	functMULT  = 0x18
	functMULTU = 0x19
	functDIV   = 0x1A
	functDIVU  = 0x1B

	functADD  = 0x20
	functADDU = 0x21
	functSUB  = 0x22
	functSUBU = 0x23
	functAND  = 0x24
	functOR   = 0x25
	functXOR  = 0x26
	functNOR  = 0x27

	functSLT  = 0x2A
	functSLTU = 0x2B

	functTRAP = 0x34
)

// Funct codes within opcodeSPECIAL2.
const (
	funct2MADD = 0x00
	funct2MUL  = 0x02
	funct2MSUB = 0x04
)

// Mnemonic is the canonical lower-case textual name of an operation,
// used both for disassembly and for trace output.
type Mnemonic string

// isaEntry is one row of the ISA table: everything Decode needs to know
// about an opcode/funct pair before it looks at register fields.
type isaEntry struct {
	mnemonic Mnemonic
	class    OpClass
	format   Format
}

// lookup resolves the (opcode, funct) pair of a decoded word into an ISA
// table entry. An all-zero word is the architectural nop (decodes as
// "sll $zero, $zero, 0", which disassembles specially as "nop"). Any
// combination absent from the table decodes as OpClassUnknown, which
// Execute treats as a decode fault.
func lookup(word uint32) isaEntry {
	opcode := Opcode(word)
	switch opcode {
	case opcodeSPECIAL:
		return lookupSpecial(Funct(word))
	case opcodeSPECIAL2:
		return lookupSpecial2(Funct(word))
	case opcodeADDI:
		return isaEntry{"addi", OpClassArithmeticI, FormatI}
	case opcodeADDIU:
		return isaEntry{"addiu", OpClassArithmeticI, FormatI}
	case opcodeSLTI:
		return isaEntry{"slti", OpClassArithmeticI, FormatI}
	case opcodeSLTIU:
		return isaEntry{"sltiu", OpClassArithmeticI, FormatI}
	case opcodeANDI:
		return isaEntry{"andi", OpClassArithmeticI, FormatI}
	case opcodeORI:
		return isaEntry{"ori", OpClassArithmeticI, FormatI}
	case opcodeXORI:
		return isaEntry{"xori", OpClassArithmeticI, FormatI}
	case opcodeLUI:
		return isaEntry{"lui", OpClassConstLoad, FormatI}
	case opcodeBEQ:
		return isaEntry{"beq", OpClassBranch, FormatI}
	case opcodeBNE:
		return isaEntry{"bne", OpClassBranch, FormatI}
	case opcodeBLEZ:
		return isaEntry{"blez", OpClassBranchVsZero, FormatI}
	case opcodeBGTZ:
		return isaEntry{"bgtz", OpClassBranchVsZero, FormatI}
	case opcodeLB:
		return isaEntry{"lb", OpClassLoad, FormatI}
	case opcodeLH:
		return isaEntry{"lh", OpClassLoad, FormatI}
	case opcodeLW:
		return isaEntry{"lw", OpClassLoad, FormatI}
	case opcodeLBU:
		return isaEntry{"lbu", OpClassLoadUnsigned, FormatI}
	case opcodeLHU:
		return isaEntry{"lhu", OpClassLoadUnsigned, FormatI}
	case opcodeSB:
		return isaEntry{"sb", OpClassStore, FormatI}
	case opcodeSH:
		return isaEntry{"sh", OpClassStore, FormatI}
	case opcodeSW:
		return isaEntry{"sw", OpClassStore, FormatI}
	case opcodeJ:
		return isaEntry{"j", OpClassJumpJ, FormatJ}
	case opcodeJAL:
		return isaEntry{"jal", OpClassJumpLinkJ, FormatJ}
	case opcodeHALT:
		return isaEntry{"halt", OpClassSpecial, FormatI}
	default:
		return isaEntry{"unknown", OpClassUnknown, FormatI}
	}
}

func lookupSpecial(funct uint32) isaEntry {
	switch funct {
	case functSLL:
		return isaEntry{"sll", OpClassShiftByAmount, FormatR}
	case functSRL:
		return isaEntry{"srl", OpClassShiftByAmount, FormatR}
	case functSRA:
		return isaEntry{"sra", OpClassShiftByAmount, FormatR}
	case functSLLV:
		return isaEntry{"sllv", OpClassShiftR, FormatR}
	case functSRLV:
		return isaEntry{"srlv", OpClassShiftR, FormatR}
	case functSRAV:
		return isaEntry{"srav", OpClassShiftR, FormatR}
	case functJR:
		return isaEntry{"jr", OpClassJumpR, FormatR}
	case functJALR:
		return isaEntry{"jalr", OpClassJumpLinkR, FormatR}
	case functMOVZ:
		return isaEntry{"movz", OpClassSpecial, FormatR}
	case functMOVN:
		return isaEntry{"movn", OpClassSpecial, FormatR}
	case functSYSCALL:
		return isaEntry{"syscall", OpClassSpecial, FormatR}
	case functBREAK:
		return isaEntry{"break", OpClassSpecial, FormatR}
	case functMFHI:
		return isaEntry{"mfhi", OpClassSpecial, FormatR}
	case functMTHI:
		return isaEntry{"mthi", OpClassSpecial, FormatR}
	case functMFLO:
		return isaEntry{"mflo", OpClassSpecial, FormatR}
	case functMTLO:
		return isaEntry{"mtlo", OpClassSpecial, FormatR}
	case functMULT:
		return isaEntry{"mult", OpClassSpecial, FormatR}
	case functMULTU:
		return isaEntry{"multu", OpClassSpecial, FormatR}
	case functDIV:
		return isaEntry{"div", OpClassSpecial, FormatR}
	case functDIVU:
		return isaEntry{"divu", OpClassSpecial, FormatR}
	case functADD:
		return isaEntry{"add", OpClassArithmeticR, FormatR}
	case functADDU:
		return isaEntry{"addu", OpClassArithmeticR, FormatR}
	case functSUB:
		return isaEntry{"sub", OpClassArithmeticR, FormatR}
	case functSUBU:
		return isaEntry{"subu", OpClassArithmeticR, FormatR}
	case functAND:
		return isaEntry{"and", OpClassArithmeticR, FormatR}
	case functOR:
		return isaEntry{"or", OpClassArithmeticR, FormatR}
	case functXOR:
		return isaEntry{"xor", OpClassArithmeticR, FormatR}
	case functNOR:
		return isaEntry{"nor", OpClassArithmeticR, FormatR}
	case functSLT:
		return isaEntry{"slt", OpClassArithmeticR, FormatR}
	case functSLTU:
		return isaEntry{"sltu", OpClassArithmeticR, FormatR}
	case functTRAP:
		return isaEntry{"trap", OpClassSpecial, FormatR}
	default:
		return isaEntry{"unknown", OpClassUnknown, FormatR}
	}
}

func lookupSpecial2(funct uint32) isaEntry {
	switch funct {
	case funct2MADD:
		return isaEntry{"madd", OpClassSpecial, FormatR}
	case funct2MSUB:
		return isaEntry{"msub", OpClassSpecial, FormatR}
	case funct2MUL:
		return isaEntry{"mul", OpClassArithmeticR, FormatR}
	default:
		return isaEntry{"unknown", OpClassUnknown, FormatR}
	}
}
