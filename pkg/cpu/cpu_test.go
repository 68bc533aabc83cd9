package cpu_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"mipspipe/pkg/cpu"
	"mipspipe/pkg/isa"
	"mipspipe/pkg/mem"
	"mipspipe/pkg/predictor"
)

const (
	t0 = isa.R8
	t1 = isa.R9
	t2 = isa.R10
	t3 = isa.R11
	s0 = isa.R16
	v0 = isa.R2
	ra = isa.RA
)

func rArith(mnemonic isa.Mnemonic, src1, src2, dst isa.RegNum) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: mnemonic, Class: isa.OpClassArithmeticR, Format: isa.FormatR,
		HasSrc1: true, Src1: src1, HasSrc2: true, Src2: src2, HasDst: true, Dst: dst})
}

func iArith(mnemonic isa.Mnemonic, src1, dst isa.RegNum, imm uint32) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: mnemonic, Class: isa.OpClassArithmeticI, Format: isa.FormatI,
		HasSrc1: true, Src1: src1, HasDst: true, Dst: dst, Imm: imm})
}

func lui(dst isa.RegNum, imm uint32) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: "lui", Class: isa.OpClassConstLoad, Format: isa.FormatI,
		HasDst: true, Dst: dst, Imm: imm})
}

func branch(mnemonic isa.Mnemonic, src1, src2 isa.RegNum, wordOffset int32) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: mnemonic, Class: isa.OpClassBranch, Format: isa.FormatI,
		HasSrc1: true, Src1: src1, HasSrc2: true, Src2: src2, Imm: uint32(wordOffset)})
}

func loadWord(mnemonic isa.Mnemonic, base, dst isa.RegNum, imm uint32) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: mnemonic, Class: isa.OpClassLoad, Format: isa.FormatI,
		HasSrc1: true, Src1: base, HasDst: true, Dst: dst, Imm: imm})
}

func storeWord(mnemonic isa.Mnemonic, base, src isa.RegNum, imm uint32) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: mnemonic, Class: isa.OpClassStore, Format: isa.FormatI,
		HasSrc1: true, Src1: base, HasSrc2: true, Src2: src, Imm: imm})
}

func special2(mnemonic isa.Mnemonic, src1, src2 isa.RegNum) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: mnemonic, Class: isa.OpClassSpecial, Format: isa.FormatR,
		HasSrc1: true, Src1: src1, HasSrc2: true, Src2: src2})
}

func moveFromHiLo(mnemonic isa.Mnemonic, dst isa.RegNum) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: mnemonic, Class: isa.OpClassSpecial, Format: isa.FormatR, HasDst: true, Dst: dst})
}

func jumpAndLink(wordTarget uint32) uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: "jal", Class: isa.OpClassJumpLinkJ, Format: isa.FormatJ, Imm26: wordTarget})
}

func halt() uint32 {
	return isa.Encode(isa.FuncInstr{Mnemonic: "halt", Class: isa.OpClassSpecial, Format: isa.FormatI})
}

func assemble(words ...uint32) []byte {
	image := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(image[4*i:], w)
	}
	return image
}

func newTestCPU(words []uint32, pred predictor.Predictor) *cpu.CPU {
	m := mem.New(4096)
	m.LoadImage(0, assemble(words...))
	if pred == nil {
		pred = predictor.NewAlwaysNotTaken()
	}
	c, err := cpu.New(0, m, pred, cpu.DefaultParams())
	Expect(err).NotTo(HaveOccurred())
	return c
}

func runToHalt(c *cpu.CPU) isa.Fault {
	fault, err := c.Run(1000)
	Expect(err).NotTo(HaveOccurred())
	Expect(fault.Kind).To(Equal(isa.FaultHalt))
	return fault
}

var _ = Describe("CPU", func() {
	It("runs basic arithmetic with forwarding", func() {
		words := []uint32{
			iArith("addiu", isa.R0, t0, 5),
			iArith("addiu", isa.R0, t1, 7),
			rArith("add", t0, t1, t2),
			halt(),
		}
		c := newTestCPU(words, nil)
		runToHalt(c)
		Expect(c.RegisterFile().Read(t2)).To(Equal(uint32(12)))
	})

	It("stalls exactly one bubble on a load-use hazard", func() {
		words := []uint32{
			iArith("addiu", isa.R0, s0, 0x100),
			loadWord("lw", s0, t0, 0),
			rArith("add", t0, t0, t1),
			halt(),
		}
		m := mem.New(4096)
		m.LoadImage(0, assemble(words...))
		// Preload the word lw will read, at the address s0 is set to.
		Expect(m.WriteWord(0x100, 4, 21)).To(Succeed())
		c, err := cpu.New(0, m, predictor.NewAlwaysNotTaken(), cpu.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
		runToHalt(c)
		Expect(c.RegisterFile().Read(t1)).To(Equal(uint32(42)))
		Expect(c.Stats().NumMispredictions).To(Equal(uint64(0)))
		// The same program with add reading $s0 instead of $t0 (no
		// load-use dependency) ends at cycle 9; the one bubble makes it 10.
		Expect(c.Cycle()).To(Equal(10))
	})

	It("detects and recovers from a branch misprediction", func() {
		words := []uint32{
			iArith("addiu", isa.R0, t0, 1), // 0
			branch("beq", t0, t0, 1),       // 1: skip the addiu at 2, land on halt at 3
			iArith("addiu", isa.R0, t1, 99), // 2
			halt(),                          // 3
		}
		c := newTestCPU(words, predictor.NewAlwaysNotTaken())
		runToHalt(c)
		Expect(c.Stats().NumJumps).To(Equal(uint64(1)))
		Expect(c.Stats().NumMispredictions).To(Equal(uint64(1)))
		Expect(c.RegisterFile().Read(t1)).To(Equal(uint32(0)), "the squashed wrong-path addiu must never retire")
	})

	It("round-trips a stored value through memory", func() {
		// ori zero-extends its 16-bit immediate, so $t0 ends up exactly
		// 0x0000ABCD with no sign-extension ambiguity; the property under
		// test is that sw/lw preserve whatever bit pattern was stored.
		words := []uint32{
			iArith("addiu", isa.R0, s0, 0x200),
			iArith("ori", isa.R0, t0, 0xABCD),
			storeWord("sw", s0, t0, 0),
			loadWord("lw", s0, t1, 0),
			halt(),
		}
		c := newTestCPU(words, nil)
		runToHalt(c)
		Expect(c.RegisterFile().Read(t1)).To(Equal(uint32(0x0000ABCD)))
	})

	It("splits a multiply's 64-bit product across hi and lo", func() {
		// lui materializes 0x10000 directly, since addiu's 16-bit
		// immediate cannot encode a value that large.
		words := []uint32{
			lui(t0, 1),
			special2("mult", t0, t0),
			moveFromHiLo("mfhi", t2),
			moveFromHiLo("mflo", t3),
			halt(),
		}
		c := newTestCPU(words, nil)
		runToHalt(c)
		Expect(c.RegisterFile().Read(t2)).To(Equal(uint32(1)))
		Expect(c.RegisterFile().Read(t3)).To(Equal(uint32(0)))
	})

	It("returns jal's link register to the instruction after the call, skipping the fall-through", func() {
		words := []uint32{
			jumpAndLink(3), // word index 3 == byte address 12
			iArith("addiu", isa.R0, v0, 1),
			halt(), // must never be reached: jal redirects past it
			iArith("addiu", isa.R0, v0, 2), // target
			halt(),
		}
		c := newTestCPU(words, nil)
		fault := runToHalt(c)
		Expect(fault.PC).To(Equal(uint32(16)), "must retire the halt after the jump target, not the fall-through one")
		Expect(c.RegisterFile().Read(v0)).To(Equal(uint32(2)))
		Expect(c.RegisterFile().Read(ra)).To(Equal(uint32(8)))
		Expect(c.Stats().NumJumps).To(Equal(uint64(1)))
	})
})
