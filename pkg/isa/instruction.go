package isa

// FuncInstr is a fully decoded instruction as it flows through the
// pipeline: created at Fetch, given operands by Decode, given a result
// by Execute, given load data by Memory, and consumed at Writeback.
type FuncInstr struct {
	Word     uint32
	PC       uint32
	Mnemonic Mnemonic
	Format   Format
	Class    OpClass

	HasSrc1, HasSrc2, HasDst bool
	Src1, Src2, Dst          RegNum

	// ReadsHI/ReadsLO mark mfhi/mflo: the source operand is the HI/LO
	// scratch word rather than a GPR named by Src1. Decode is responsible
	// for populating VSrc1 from HI/LO instead of the register file when
	// these are set.
	ReadsHI, ReadsLO bool

	// Imm is the fully decoded immediate: sign-extended for every I-form
	// instruction except andi/ori/xori, which zero-extend, and lui, whose
	// Imm carries the raw 16-bit field (the <<16 happens in Execute).
	Imm   uint32
	Imm26 uint32
	Shamt uint32

	VSrc1, VSrc2 uint32
	VDst         uint32

	// WritesHiLo is set by Execute for mult/multu/div/divu/madd/msub and
	// mthi/mtlo, whose result lands in the HI/LO scratch words instead of
	// VDst.
	WritesHiLo bool
	VHi, VLo   uint32

	// MoveFires is meaningful only for movn/movz: whether the condition
	// held and the conditional move actually wrote its destination.
	MoveFires bool

	MemAddr   uint32
	MemSize   uint32
	MemSigned bool

	NewPC     uint32
	Completed bool
	Fault     Fault
}

// IsNop reports whether the instruction is the architectural no-op: an
// all-zero encoding, which decodes to "sll $zero, $zero, 0".
func (fi FuncInstr) IsNop() bool {
	return fi.Word == 0
}

// WritesHI reports whether fi's destination is the HI scratch word,
// known from the mnemonic alone at Decode time, before Execute has run.
func (fi FuncInstr) WritesHI() bool {
	switch fi.Mnemonic {
	case "mult", "multu", "div", "divu", "madd", "msub", "mthi":
		return true
	default:
		return false
	}
}

// WritesLO reports whether fi's destination is the LO scratch word.
func (fi FuncInstr) WritesLO() bool {
	switch fi.Mnemonic {
	case "mult", "multu", "div", "divu", "madd", "msub", "mtlo":
		return true
	default:
		return false
	}
}

// Decode parses a 32-bit instruction word fetched from pc into a fully
// decoded FuncInstr. It classifies the format from the opcode, extracts
// fields, looks up the mnemonic and operation class in the ISA table,
// and populates Src1/Src2/Dst/Imm according to the per-format wiring
// rules in the data model.
func Decode(word uint32, pc uint32) FuncInstr {
	entry := lookup(word)
	fi := FuncInstr{
		Word:     word,
		PC:       pc,
		Mnemonic: entry.mnemonic,
		Format:   entry.format,
		Class:    entry.class,
		NewPC:    pc + 4, // default; branches/jumps overwrite below
	}

	if entry.class == OpClassUnknown {
		return fi
	}

	switch entry.format {
	case FormatR:
		fi.decodeR(word)
	case FormatI:
		fi.decodeI(word)
	case FormatJ:
		fi.decodeJ(word)
	}
	return fi
}

func (fi *FuncInstr) decodeR(word uint32) {
	rs, rt, rd := Rs(word), Rt(word), Rd(word)
	fi.Shamt = Shamt(word)

	switch fi.Class {
	case OpClassShiftByAmount:
		fi.HasSrc1, fi.Src1 = true, rt
		fi.HasDst, fi.Dst = true, rd
	case OpClassShiftR:
		fi.HasSrc1, fi.Src1 = true, rt
		fi.HasSrc2, fi.Src2 = true, rs
		fi.HasDst, fi.Dst = true, rd
	case OpClassJumpR:
		fi.HasSrc1, fi.Src1 = true, rs
	case OpClassJumpLinkR:
		fi.HasSrc1, fi.Src1 = true, rs
		fi.HasDst, fi.Dst = true, rd
	case OpClassArithmeticR:
		fi.HasSrc1, fi.Src1 = true, rs
		fi.HasSrc2, fi.Src2 = true, rt
		fi.HasDst, fi.Dst = true, rd
	case OpClassSpecial:
		fi.decodeSpecialR(rs, rt, rd)
	}
}

func (fi *FuncInstr) decodeSpecialR(rs, rt, rd RegNum) {
	switch fi.Mnemonic {
	case "mult", "multu", "div", "divu", "madd", "msub":
		fi.HasSrc1, fi.Src1 = true, rs
		fi.HasSrc2, fi.Src2 = true, rt
	case "mfhi":
		fi.HasDst, fi.Dst = true, rd
		fi.ReadsHI = true
	case "mflo":
		fi.HasDst, fi.Dst = true, rd
		fi.ReadsLO = true
	case "mthi", "mtlo":
		fi.HasSrc1, fi.Src1 = true, rs
	case "movn", "movz":
		fi.HasSrc1, fi.Src1 = true, rs
		fi.HasSrc2, fi.Src2 = true, rt
		fi.HasDst, fi.Dst = true, rd
	case "syscall", "break", "trap":
		// no register operands
	}
}

func (fi *FuncInstr) decodeI(word uint32) {
	rs, rt := Rs(word), Rt(word)
	raw16 := Imm16(word)

	switch fi.Class {
	case OpClassArithmeticI:
		fi.HasSrc1, fi.Src1 = true, rs
		fi.HasDst, fi.Dst = true, rt
		if fi.Mnemonic == "andi" || fi.Mnemonic == "ori" || fi.Mnemonic == "xori" {
			fi.Imm = ZeroExtend16(raw16)
		} else {
			fi.Imm = SignExtend16(raw16)
		}
	case OpClassConstLoad:
		fi.HasDst, fi.Dst = true, rt
		fi.Imm = raw16
	case OpClassBranch:
		fi.HasSrc1, fi.Src1 = true, rs
		fi.HasSrc2, fi.Src2 = true, rt
		fi.Imm = SignExtend16(raw16)
	case OpClassBranchVsZero:
		fi.HasSrc1, fi.Src1 = true, rs
		fi.Imm = SignExtend16(raw16)
	case OpClassLoad, OpClassLoadUnsigned:
		fi.HasSrc1, fi.Src1 = true, rs
		fi.HasDst, fi.Dst = true, rt
		fi.Imm = SignExtend16(raw16)
		fi.MemSigned = fi.Class == OpClassLoad
		switch fi.Mnemonic {
		case "lw":
			fi.MemSize = 4
		case "lh", "lhu":
			fi.MemSize = 2
		case "lb", "lbu":
			fi.MemSize = 1
		}
	case OpClassStore:
		fi.HasSrc1, fi.Src1 = true, rs
		fi.HasSrc2, fi.Src2 = true, rt
		fi.Imm = SignExtend16(raw16)
		switch fi.Mnemonic {
		case "sw":
			fi.MemSize = 4
		case "sh":
			fi.MemSize = 2
		case "sb":
			fi.MemSize = 1
		}
	}
}

func (fi *FuncInstr) decodeJ(word uint32) {
	fi.Imm26 = Imm26(word)
	if fi.Mnemonic == "jal" {
		fi.HasDst, fi.Dst = true, RA
	}
}
