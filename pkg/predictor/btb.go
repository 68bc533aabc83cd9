package predictor

// counterMax and counterMin bound each BTB entry's two-bit direction
// counter. Two bits give the classic strongly-not-taken / weakly-not-
// taken / weakly-taken / strongly-taken states; this is the "typical"
// choice the predictor contract leaves open, scaled down from the
// 3-bit counters of a TAGE-style table to the 2-bit counter this
// simpler direct-mapped design calls for.
const (
	counterMax = 3 // 0b11
	counterMin = 0 // 0b00

	counterWeaklyTaken = 2
)

// btbEntry is one direct-mapped slot: the target last seen for a PC,
// a tag to detect aliasing, and a 2-bit saturating direction counter.
type btbEntry struct {
	valid   bool
	tag     uint32
	target  uint32
	counter uint8
}

// BTB is a direct-mapped branch target buffer with 2-bit saturating
// counters, loosely modeled on the table/counter structure of a TAGE
// predictor but collapsed to a single table and a single counter per
// entry, which is all the predictor contract requires.
type BTB struct {
	entries []btbEntry
	mask    uint32
}

// NewBTB returns a BTB with numEntries slots, rounded up to the next
// power of two so indexing can use a mask instead of a modulo.
func NewBTB(numEntries int) *BTB {
	n := 1
	for n < numEntries {
		n <<= 1
	}
	if n == 0 {
		n = 1
	}
	return &BTB{entries: make([]btbEntry, n), mask: uint32(n - 1)}
}

func (b *BTB) index(pc uint32) uint32 {
	return (pc >> 2) & b.mask
}

// Predict looks up pc's entry. On a miss (never seen, or a tag
// collision with a different PC) it falls back to not-taken, matching
// the always-not-taken predictor's behavior for cold branches.
func (b *BTB) Predict(pc uint32) BPInterface {
	e := &b.entries[b.index(pc)]
	if !e.valid || e.tag != pc || e.counter < counterWeaklyTaken {
		return BPInterface{PC: pc, PredictedTaken: false, PredictedTarget: pc + 4}
	}
	return BPInterface{PC: pc, PredictedTaken: true, PredictedTarget: e.target}
}

// Update records the resolved outcome of the branch at observed.PC,
// saturating the counter up on taken and down on not-taken, and
// refreshing the stored target whenever the branch was taken.
func (b *BTB) Update(observed BPInterface, actualTaken bool, actualTarget uint32) {
	e := &b.entries[b.index(observed.PC)]
	if !e.valid || e.tag != observed.PC {
		*e = btbEntry{valid: true, tag: observed.PC, counter: counterWeaklyTaken}
	}
	if actualTaken {
		if e.counter < counterMax {
			e.counter++
		}
		e.target = actualTarget
	} else if e.counter > counterMin {
		e.counter--
	}
}
