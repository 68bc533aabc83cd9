package isa

import "fmt"

// Disassemble renders fi as canonical assembly text. This is a required
// side-output for tracing; it never fails — an instruction that failed
// to decode renders as "<unknown: 0x........>".
func Disassemble(fi FuncInstr) string {
	if fi.IsNop() {
		return "nop"
	}
	switch fi.Class {
	case OpClassUnknown:
		return fmt.Sprintf("<unknown: 0x%08x>", fi.Word)
	case OpClassArithmeticR:
		if fi.Mnemonic == "mul" {
			return fmt.Sprintf("%s %s, %s, %s", fi.Mnemonic, fi.Dst, fi.Src1, fi.Src2)
		}
		return fmt.Sprintf("%s %s, %s, %s", fi.Mnemonic, fi.Dst, fi.Src1, fi.Src2)
	case OpClassShiftByAmount:
		return fmt.Sprintf("%s %s, %s, %d", fi.Mnemonic, fi.Dst, fi.Src1, fi.Shamt)
	case OpClassShiftR:
		return fmt.Sprintf("%s %s, %s, %s", fi.Mnemonic, fi.Dst, fi.Src1, fi.Src2)
	case OpClassJumpR:
		return fmt.Sprintf("%s %s", fi.Mnemonic, fi.Src1)
	case OpClassJumpLinkR:
		return fmt.Sprintf("%s %s, %s", fi.Mnemonic, fi.Dst, fi.Src1)
	case OpClassArithmeticI:
		return fmt.Sprintf("%s %s, %s, %d", fi.Mnemonic, fi.Dst, fi.Src1, int32(fi.Imm))
	case OpClassConstLoad:
		return fmt.Sprintf("%s %s, %d", fi.Mnemonic, fi.Dst, fi.Imm)
	case OpClassBranch:
		return fmt.Sprintf("%s %s, %s, %d", fi.Mnemonic, fi.Src1, fi.Src2, int32(fi.Imm))
	case OpClassBranchVsZero:
		return fmt.Sprintf("%s %s, %d", fi.Mnemonic, fi.Src1, int32(fi.Imm))
	case OpClassLoad, OpClassLoadUnsigned:
		return fmt.Sprintf("%s %s, %d(%s)", fi.Mnemonic, fi.Dst, int32(fi.Imm), fi.Src1)
	case OpClassStore:
		return fmt.Sprintf("%s %s, %d(%s)", fi.Mnemonic, fi.Src2, int32(fi.Imm), fi.Src1)
	case OpClassJumpJ, OpClassJumpLinkJ:
		return fmt.Sprintf("%s 0x%08x", fi.Mnemonic, fi.Imm26<<2)
	case OpClassSpecial:
		return disassembleSpecial(fi)
	default:
		return fmt.Sprintf("<unknown: 0x%08x>", fi.Word)
	}
}

func disassembleSpecial(fi FuncInstr) string {
	switch fi.Mnemonic {
	case "mult", "multu", "div", "divu", "madd", "msub":
		return fmt.Sprintf("%s %s, %s", fi.Mnemonic, fi.Src1, fi.Src2)
	case "mfhi", "mflo":
		return fmt.Sprintf("%s %s", fi.Mnemonic, fi.Dst)
	case "mthi", "mtlo":
		return fmt.Sprintf("%s %s", fi.Mnemonic, fi.Src1)
	case "movn", "movz":
		return fmt.Sprintf("%s %s, %s, %s", fi.Mnemonic, fi.Dst, fi.Src1, fi.Src2)
	case "syscall", "break", "trap", "halt":
		return string(fi.Mnemonic)
	default:
		return fmt.Sprintf("<unknown: 0x%08x>", fi.Word)
	}
}
