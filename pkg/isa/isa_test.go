package isa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// roundTrip builds a word from fi via Encode, decodes it back, and
// checks that every field Decode actually populates for fi's class
// survives the trip.
func roundTrip(t *testing.T, fi FuncInstr) FuncInstr {
	t.Helper()
	word := Encode(fi)
	got := Decode(word, fi.PC)
	require.Equal(t, fi.Mnemonic, got.Mnemonic)
	require.Equal(t, fi.Class, got.Class)
	if fi.HasSrc1 {
		require.Equal(t, fi.Src1, got.Src1)
	}
	if fi.HasSrc2 {
		require.Equal(t, fi.Src2, got.Src2)
	}
	if fi.HasDst {
		require.Equal(t, fi.Dst, got.Dst)
	}
	return got
}

func TestDecodeEncodeRoundTripArithmeticR(t *testing.T) {
	for _, m := range []Mnemonic{"add", "addu", "sub", "subu", "and", "or", "xor", "nor", "slt", "sltu", "mul"} {
		fi := FuncInstr{Mnemonic: m, Class: OpClassArithmeticR, Format: FormatR,
			HasSrc1: true, Src1: R8, HasSrc2: true, Src2: R9, HasDst: true, Dst: R10}
		roundTrip(t, fi)
	}
}

func TestDecodeEncodeRoundTripShift(t *testing.T) {
	fi := FuncInstr{Mnemonic: "sll", Class: OpClassShiftByAmount, Format: FormatR,
		HasSrc1: true, Src1: R11, HasDst: true, Dst: R12, Shamt: 7}
	got := roundTrip(t, fi)
	require.Equal(t, uint32(7), got.Shamt)

	fiv := FuncInstr{Mnemonic: "sllv", Class: OpClassShiftR, Format: FormatR,
		HasSrc1: true, Src1: R11, HasSrc2: true, Src2: R12, HasDst: true, Dst: R13}
	roundTrip(t, fiv)
}

func TestDecodeEncodeRoundTripArithmeticI(t *testing.T) {
	fi := FuncInstr{Mnemonic: "addi", Class: OpClassArithmeticI, Format: FormatI,
		HasSrc1: true, Src1: R4, HasDst: true, Dst: R5, Imm: SignExtend16(0x8000)}
	got := roundTrip(t, fi)
	require.Equal(t, SignExtend16(0x8000), got.Imm)

	fiu := FuncInstr{Mnemonic: "andi", Class: OpClassArithmeticI, Format: FormatI,
		HasSrc1: true, Src1: R4, HasDst: true, Dst: R5, Imm: ZeroExtend16(0xBEEF)}
	gotu := roundTrip(t, fiu)
	require.Equal(t, ZeroExtend16(0xBEEF), gotu.Imm)
}

func TestDecodeEncodeRoundTripBranch(t *testing.T) {
	fi := FuncInstr{Mnemonic: "beq", Class: OpClassBranch, Format: FormatI, PC: 0x100,
		HasSrc1: true, Src1: R6, HasSrc2: true, Src2: R7, Imm: SignExtend16(0xFFF0)}
	got := roundTrip(t, fi)
	require.Equal(t, SignExtend16(0xFFF0), got.Imm)

	fiz := FuncInstr{Mnemonic: "blez", Class: OpClassBranchVsZero, Format: FormatI, PC: 0x100,
		HasSrc1: true, Src1: R6, Imm: SignExtend16(4)}
	roundTrip(t, fiz)
}

func TestDecodeEncodeRoundTripLoadStore(t *testing.T) {
	ld := FuncInstr{Mnemonic: "lw", Class: OpClassLoad, Format: FormatI,
		HasSrc1: true, Src1: SP, HasDst: true, Dst: R2, Imm: SignExtend16(16)}
	got := roundTrip(t, ld)
	require.Equal(t, SignExtend16(16), got.Imm)

	st := FuncInstr{Mnemonic: "sw", Class: OpClassStore, Format: FormatI,
		HasSrc1: true, Src1: SP, HasSrc2: true, Src2: R2, Imm: SignExtend16(-4 & 0xFFFF)}
	roundTrip(t, st)
}

func TestDecodeEncodeRoundTripJump(t *testing.T) {
	jr := FuncInstr{Mnemonic: "jr", Class: OpClassJumpR, Format: FormatR, HasSrc1: true, Src1: RA}
	roundTrip(t, jr)

	jalr := FuncInstr{Mnemonic: "jalr", Class: OpClassJumpLinkR, Format: FormatR,
		HasSrc1: true, Src1: R8, HasDst: true, Dst: RA}
	roundTrip(t, jalr)

	j := FuncInstr{Mnemonic: "j", Class: OpClassJumpJ, Format: FormatJ, PC: 0x400, Imm26: 0x100}
	word := Encode(j)
	got := Decode(word, j.PC)
	require.Equal(t, j.Imm26, got.Imm26)

	jal := FuncInstr{Mnemonic: "jal", Class: OpClassJumpLinkJ, Format: FormatJ, PC: 0x400, Imm26: 0x100}
	wordJal := Encode(jal)
	gotJal := Decode(wordJal, jal.PC)
	require.Equal(t, RA, gotJal.Dst)
}

func TestDecodeEncodeRoundTripSpecial(t *testing.T) {
	for _, m := range []Mnemonic{"mult", "multu", "div", "divu", "madd", "msub"} {
		fi := FuncInstr{Mnemonic: m, Class: OpClassSpecial, Format: FormatR,
			HasSrc1: true, Src1: R8, HasSrc2: true, Src2: R9}
		roundTrip(t, fi)
	}
	mfhi := FuncInstr{Mnemonic: "mfhi", Class: OpClassSpecial, Format: FormatR, HasDst: true, Dst: R10}
	got := roundTrip(t, mfhi)
	require.True(t, got.ReadsHI)

	mflo := FuncInstr{Mnemonic: "mflo", Class: OpClassSpecial, Format: FormatR, HasDst: true, Dst: R10}
	gotLo := roundTrip(t, mflo)
	require.True(t, gotLo.ReadsLO)

	mthi := FuncInstr{Mnemonic: "mthi", Class: OpClassSpecial, Format: FormatR, HasSrc1: true, Src1: R11}
	roundTrip(t, mthi)

	movn := FuncInstr{Mnemonic: "movn", Class: OpClassSpecial, Format: FormatR,
		HasSrc1: true, Src1: R8, HasSrc2: true, Src2: R9, HasDst: true, Dst: R10}
	roundTrip(t, movn)
}

func TestIsNopIsAllZeroWord(t *testing.T) {
	fi := Decode(0, 0)
	require.True(t, fi.IsNop())
	require.Equal(t, Mnemonic("sll"), fi.Mnemonic)
}

func TestDecodeUnknownOpcodeIsOpClassUnknown(t *testing.T) {
	word := uint32(0x3B) << 26 // an opcode nothing in the table claims
	fi := Decode(word, 0)
	require.Equal(t, OpClassUnknown, fi.Class)
}

func TestWritesHIWritesLO(t *testing.T) {
	mult := FuncInstr{Mnemonic: "mult"}
	require.True(t, mult.WritesHI())
	require.True(t, mult.WritesLO())

	mthi := FuncInstr{Mnemonic: "mthi"}
	require.True(t, mthi.WritesHI())
	require.False(t, mthi.WritesLO())

	mtlo := FuncInstr{Mnemonic: "mtlo"}
	require.False(t, mtlo.WritesHI())
	require.True(t, mtlo.WritesLO())

	add := FuncInstr{Mnemonic: "add"}
	require.False(t, add.WritesHI())
	require.False(t, add.WritesLO())
}

func TestExecuteAddTrapsOnSignedOverflow(t *testing.T) {
	fi := FuncInstr{Mnemonic: "add", Class: OpClassArithmeticR, VSrc1: 0x7FFFFFFF, VSrc2: 1}
	got := Execute(fi)
	require.True(t, got.Fault.IsFault())
	require.Equal(t, FaultArithmetic, got.Fault.Kind)
}

func TestExecuteAdduNeverTraps(t *testing.T) {
	fi := FuncInstr{Mnemonic: "addu", Class: OpClassArithmeticR, VSrc1: 0x7FFFFFFF, VSrc2: 1}
	got := Execute(fi)
	require.False(t, got.Fault.IsFault())
	require.Equal(t, uint32(0x80000000), got.VDst)
}

func TestExecuteAddiTrapsOnSignedOverflow(t *testing.T) {
	fi := FuncInstr{Mnemonic: "addi", Class: OpClassArithmeticI, VSrc1: 0x7FFFFFFF, Imm: 1}
	got := Execute(fi)
	require.True(t, got.Fault.IsFault())
}

func TestExecuteAddiuNeverTraps(t *testing.T) {
	fi := FuncInstr{Mnemonic: "addiu", Class: OpClassArithmeticI, VSrc1: 0x7FFFFFFF, Imm: 1}
	got := Execute(fi)
	require.False(t, got.Fault.IsFault())
}

func TestExecuteShiftByAmountMasksTo5Bits(t *testing.T) {
	fi := FuncInstr{Mnemonic: "sll", Class: OpClassShiftByAmount, VSrc1: 1, Shamt: 33}
	got := Execute(fi)
	require.Equal(t, uint32(1)<<1, got.VDst, "shamt must mask to its 5 encoded bits")
}

func TestExecuteShiftRMasksAmountFromRegister(t *testing.T) {
	fi := FuncInstr{Mnemonic: "sllv", Class: OpClassShiftR, VSrc1: 1, VSrc2: 32}
	got := Execute(fi)
	require.Equal(t, uint32(1), got.VDst, "a register-supplied amount of 32 must mask to 0")
}

func TestExecuteDivByZeroFaultsAndSetsConventionalHiLo(t *testing.T) {
	fi := FuncInstr{Mnemonic: "div", Class: OpClassSpecial, VSrc1: 7, VSrc2: 0}
	got := Execute(fi)
	require.True(t, got.Fault.IsFault())
	require.Equal(t, FaultArithmetic, got.Fault.Kind)
	require.Equal(t, uint32(7), got.VLo)
	require.Equal(t, uint32(0xFFFFFFFF), got.VHi)
}

func TestExecuteDivuByZeroFaultsAndSetsConventionalHiLo(t *testing.T) {
	fi := FuncInstr{Mnemonic: "divu", Class: OpClassSpecial, VSrc1: 9, VSrc2: 0}
	got := Execute(fi)
	require.True(t, got.Fault.IsFault())
	require.Equal(t, uint32(9), got.VLo)
	require.Equal(t, uint32(0xFFFFFFFF), got.VHi)
}

func TestExecuteDivOperandOrderIsDividendBySrc1Divisor(t *testing.T) {
	fi := FuncInstr{Mnemonic: "div", Class: OpClassSpecial, VSrc1: 17, VSrc2: 5}
	got := Execute(fi)
	require.False(t, got.Fault.IsFault())
	require.Equal(t, uint32(3), got.VLo)
	require.Equal(t, uint32(2), got.VHi)
}

func TestExecuteMultIsSigned64BitWiden(t *testing.T) {
	fi := FuncInstr{Mnemonic: "mult", Class: OpClassSpecial, VSrc1: 0xFFFFFFFE, VSrc2: 3} // VSrc1 is -2
	got := Execute(fi)
	require.Equal(t, uint32(0xFFFFFFFF), got.VHi)
	require.Equal(t, uint32(0xFFFFFFFA), got.VLo) // -6
}

func TestExecuteMultuIsUnsigned64BitWiden(t *testing.T) {
	fi := FuncInstr{Mnemonic: "multu", Class: OpClassSpecial, VSrc1: 0xFFFFFFFF, VSrc2: 2}
	got := Execute(fi)
	require.Equal(t, uint32(1), got.VHi)
	require.Equal(t, uint32(0xFFFFFFFE), got.VLo)
}

func TestExecuteMovzMovesOnlyWhenSrc2IsZero(t *testing.T) {
	fires := FuncInstr{Mnemonic: "movz", Class: OpClassSpecial, VSrc1: 99, VSrc2: 0}
	got := Execute(fires)
	require.True(t, got.MoveFires)
	require.Equal(t, uint32(99), got.VDst)

	blocked := FuncInstr{Mnemonic: "movz", Class: OpClassSpecial, VSrc1: 99, VSrc2: 1}
	got2 := Execute(blocked)
	require.False(t, got2.MoveFires)
}

func TestExecuteMovnMovesOnlyWhenSrc2IsNonzero(t *testing.T) {
	fires := FuncInstr{Mnemonic: "movn", Class: OpClassSpecial, VSrc1: 7, VSrc2: 1}
	got := Execute(fires)
	require.True(t, got.MoveFires)
	require.Equal(t, uint32(7), got.VDst)

	blocked := FuncInstr{Mnemonic: "movn", Class: OpClassSpecial, VSrc1: 7, VSrc2: 0}
	got2 := Execute(blocked)
	require.False(t, got2.MoveFires)
}

func TestExecuteBranchTargetIsPcPlus4PlusOffset(t *testing.T) {
	fi := FuncInstr{Mnemonic: "beq", Class: OpClassBranch, PC: 0x1000, VSrc1: 4, VSrc2: 4, Imm: SignExtend16(2)}
	got := Execute(fi)
	require.Equal(t, uint32(0x1000+4+8), got.NewPC)
}

func TestExecuteHaltFaultsWithFaultHalt(t *testing.T) {
	fi := FuncInstr{Mnemonic: "halt", Class: OpClassSpecial, PC: 0x2000}
	got := Execute(fi)
	require.Equal(t, FaultHalt, got.Fault.Kind)
}

func TestExecuteSyscallCarriesItsArgument(t *testing.T) {
	fi := FuncInstr{Mnemonic: "syscall", Class: OpClassSpecial, VSrc1: 5}
	got := Execute(fi)
	require.Equal(t, FaultSyscall, got.Fault.Kind)
	require.Equal(t, uint32(5), got.Fault.Arg)
}
