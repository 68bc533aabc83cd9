// Package predictor implements the branch predictor interface consumed
// by Fetch and Decode: a query that guesses the next PC, and an update
// that reports the resolved outcome once a branch or jump is decoded.
package predictor

// BPInterface records a single prediction: the PC it was made for,
// whether the branch was predicted taken, and the predicted target.
// Decode compares this record against the outcome it resolves and
// raises a misprediction if they disagree.
type BPInterface struct {
	PC              uint32
	PredictedTaken  bool
	PredictedTarget uint32
}

// Predictor is the minimum contract the pipeline core requires of a
// branch predictor. Fetch calls Predict once per cycle to steer the
// program counter; Decode calls Update once per resolved branch or
// jump with the actual outcome.
type Predictor interface {
	Predict(pc uint32) BPInterface
	Update(observed BPInterface, actualTaken bool, actualTarget uint32)
}

// AlwaysNotTaken is the simplest conforming predictor: it never
// predicts a branch taken and never adjusts its behavior. Every branch
// therefore mispredicts whenever it is actually taken.
type AlwaysNotTaken struct{}

// NewAlwaysNotTaken returns a predictor that never predicts taken.
func NewAlwaysNotTaken() *AlwaysNotTaken {
	return &AlwaysNotTaken{}
}

// Predict always predicts fall-through.
func (p *AlwaysNotTaken) Predict(pc uint32) BPInterface {
	return BPInterface{PC: pc, PredictedTaken: false, PredictedTarget: pc + 4}
}

// Update is a no-op; the always-not-taken predictor carries no state.
func (p *AlwaysNotTaken) Update(observed BPInterface, actualTaken bool, actualTarget uint32) {}
