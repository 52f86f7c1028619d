package logits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepeatPenaltyScalesBySign(t *testing.T) {
	logits := []float32{2.0, -2.0, 1.0}
	ApplyRepeatPenalty(logits, 2.0, []int{0, 1})

	assert.InDelta(t, 1.0, logits[0], 1e-6)  // positive divided
	assert.InDelta(t, -4.0, logits[1], 1e-6) // negative multiplied
	assert.InDelta(t, 1.0, logits[2], 1e-6)  // untouched
}

func TestRepeatPenaltyOneIsNoop(t *testing.T) {
	logits := []float32{2.0, -2.0}
	ApplyRepeatPenalty(logits, 1.0, []int{0, 1})
	assert.Equal(t, []float32{2.0, -2.0}, logits)
}

func TestRepeatPenaltyDeduplicatesWindow(t *testing.T) {
	logits := []float32{8.0}
	ApplyRepeatPenalty(logits, 2.0, []int{0, 0, 0})
	// Applied once, not cubed.
	assert.InDelta(t, 4.0, logits[0], 1e-6)
}

func TestRepeatPenaltyIgnoresOutOfRangeIDs(t *testing.T) {
	logits := []float32{1.0, 1.0}
	ApplyRepeatPenalty(logits, 2.0, []int{-1, 5})
	assert.Equal(t, []float32{1.0, 1.0}, logits)
}

func TestRepeatPenaltyEmptyWindow(t *testing.T) {
	logits := []float32{3.0}
	ApplyRepeatPenalty(logits, 2.0, nil)
	assert.Equal(t, []float32{3.0}, logits)
}
