package isa

// OpClass is the operation class of a decoded instruction, as named in
// the data model: it drives both the Decode-stage register wiring rules
// and the Execute-stage semantics dispatch.
type OpClass uint8

const (
	OpClassUnknown OpClass = iota
	OpClassArithmeticR
	OpClassShiftR        // sllv/srlv/srav: shift amount taken from a register
	OpClassShiftByAmount // sll/srl/sra: shift amount taken from shamt field
	OpClassJumpR         // jr
	OpClassJumpLinkR     // jalr
	OpClassArithmeticI
	OpClassBranch        // beq/bne
	OpClassBranchVsZero  // blez/bgtz
	OpClassLoad          // sign-extending loads
	OpClassLoadUnsigned  // zero-extending loads
	OpClassConstLoad     // lui
	OpClassStore
	OpClassJumpJ     // j
	OpClassJumpLinkJ // jal
	OpClassSpecial   // mult/div/mfhi/mflo/mthi/mtlo/madd/movn/movz/syscall/break/trap
)

// String renders an operation class name for tracing and error messages.
func (c OpClass) String() string {
	switch c {
	case OpClassArithmeticR:
		return "arithmetic-R"
	case OpClassShiftR:
		return "shift-R"
	case OpClassShiftByAmount:
		return "shift-by-amount"
	case OpClassJumpR:
		return "jump-R"
	case OpClassJumpLinkR:
		return "jump-link-R"
	case OpClassArithmeticI:
		return "arithmetic-I"
	case OpClassBranch:
		return "branch"
	case OpClassBranchVsZero:
		return "branch-vs-zero"
	case OpClassLoad:
		return "load"
	case OpClassLoadUnsigned:
		return "load-unsigned"
	case OpClassConstLoad:
		return "const-load"
	case OpClassStore:
		return "store"
	case OpClassJumpJ:
		return "jump-J"
	case OpClassJumpLinkJ:
		return "jump-link-J"
	case OpClassSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// IsJump reports whether c is any jump or branch variant.
func (c OpClass) IsJump() bool {
	switch c {
	case OpClassJumpR, OpClassJumpLinkR, OpClassBranch, OpClassBranchVsZero,
		OpClassJumpJ, OpClassJumpLinkJ:
		return true
	default:
		return false
	}
}

// IsLoad reports whether c reads memory.
func (c OpClass) IsLoad() bool {
	return c == OpClassLoad || c == OpClassLoadUnsigned
}

// IsStore reports whether c writes memory.
func (c OpClass) IsStore() bool {
	return c == OpClassStore
}
