package isa

// Encode re-assembles a decoded instruction back into its 32-bit word.
// It exists chiefly to make Decode(Encode(fi)) == fi testable for every
// row of the ISA table, and is the generalization of the teacher's
// per-instruction Encode methods into one function driven by Format.
func Encode(fi FuncInstr) uint32 {
	opcode, funct := opcodeAndFunctFor(fi.Mnemonic)
	switch fi.Format {
	case FormatJ:
		return (opcode << 26) | (fi.Imm26 & 0x3FFFFFF)
	case FormatR:
		return encodeR(fi, opcode, funct)
	default:
		return encodeI(fi, opcode)
	}
}

func encodeR(fi FuncInstr, opcode, funct uint32) uint32 {
	var rs, rt, rd, shamt uint32
	switch fi.Class {
	case OpClassShiftByAmount:
		rt, rd, shamt = uint32(fi.Src1), uint32(fi.Dst), fi.Shamt
	case OpClassShiftR:
		rs, rt, rd = uint32(fi.Src2), uint32(fi.Src1), uint32(fi.Dst)
	case OpClassJumpR:
		rs = uint32(fi.Src1)
	case OpClassJumpLinkR:
		rs, rd = uint32(fi.Src1), uint32(fi.Dst)
	case OpClassArithmeticR:
		rs, rt, rd = uint32(fi.Src1), uint32(fi.Src2), uint32(fi.Dst)
	case OpClassSpecial:
		rs, rt, rd = encodeSpecialRegs(fi)
	}
	return (opcode << 26) | (rs << 21) | (rt << 16) | (rd << 11) | (shamt << 6) | funct
}

func encodeSpecialRegs(fi FuncInstr) (rs, rt, rd uint32) {
	switch fi.Mnemonic {
	case "mult", "multu", "div", "divu", "madd", "msub":
		return uint32(fi.Src1), uint32(fi.Src2), 0
	case "mfhi", "mflo":
		return 0, 0, uint32(fi.Dst)
	case "mthi", "mtlo":
		return uint32(fi.Src1), 0, 0
	case "movn", "movz":
		return uint32(fi.Src1), uint32(fi.Src2), uint32(fi.Dst)
	default:
		return 0, 0, 0
	}
}

func encodeI(fi FuncInstr, opcode uint32) uint32 {
	var rs, rt, imm uint32
	switch fi.Class {
	case OpClassArithmeticI:
		rs, rt = uint32(fi.Src1), uint32(fi.Dst)
		imm = fi.Imm
	case OpClassConstLoad:
		rt = uint32(fi.Dst)
		imm = fi.Imm
	case OpClassBranch:
		rs, rt = uint32(fi.Src1), uint32(fi.Src2)
		imm = fi.Imm
	case OpClassBranchVsZero:
		rs = uint32(fi.Src1)
		imm = fi.Imm
	case OpClassLoad, OpClassLoadUnsigned:
		rs, rt = uint32(fi.Src1), uint32(fi.Dst)
		imm = fi.Imm
	case OpClassStore:
		rs, rt = uint32(fi.Src1), uint32(fi.Src2)
		imm = fi.Imm
	}
	return (opcode << 26) | (rs << 21) | (rt << 16) | (imm & 0xFFFF)
}

func opcodeAndFunctFor(m Mnemonic) (opcode, funct uint32) {
	if oc, ok := rOpFuncts[m]; ok {
		return opcodeSPECIAL, oc
	}
	if oc, ok := r2OpFuncts[m]; ok {
		return opcodeSPECIAL2, oc
	}
	return iOrJOpcodes[m], 0
}

var rOpFuncts = map[Mnemonic]uint32{
	"sll": functSLL, "srl": functSRL, "sra": functSRA,
	"sllv": functSLLV, "srlv": functSRLV, "srav": functSRAV,
	"jr": functJR, "jalr": functJALR,
	"movz": functMOVZ, "movn": functMOVN,
	"syscall": functSYSCALL, "break": functBREAK,
	"mfhi": functMFHI, "mthi": functMTHI, "mflo": functMFLO, "mtlo": functMTLO,
	"mult": functMULT, "multu": functMULTU, "div": functDIV, "divu": functDIVU,
	"add": functADD, "addu": functADDU, "sub": functSUB, "subu": functSUBU,
	"and": functAND, "or": functOR, "xor": functXOR, "nor": functNOR,
	"slt": functSLT, "sltu": functSLTU, "trap": functTRAP,
}

var r2OpFuncts = map[Mnemonic]uint32{
	"madd": funct2MADD, "mul": funct2MUL, "msub": funct2MSUB,
}

var iOrJOpcodes = map[Mnemonic]uint32{
	"addi": opcodeADDI, "addiu": opcodeADDIU, "slti": opcodeSLTI, "sltiu": opcodeSLTIU,
	"andi": opcodeANDI, "ori": opcodeORI, "xori": opcodeXORI, "lui": opcodeLUI,
	"beq": opcodeBEQ, "bne": opcodeBNE, "blez": opcodeBLEZ, "bgtz": opcodeBGTZ,
	"lb": opcodeLB, "lh": opcodeLH, "lw": opcodeLW, "lbu": opcodeLBU, "lhu": opcodeLHU,
	"sb": opcodeSB, "sh": opcodeSH, "sw": opcodeSW,
	"j": opcodeJ, "jal": opcodeJAL,
	"halt": opcodeHALT,
}
