package logits

// ApplyRepeatPenalty rescales, in place, the logits of every token id
// present in the recent window: positive logits are divided by the
// penalty factor and negative ones multiplied, shrinking the
// probability mass of recently emitted tokens. Each id is penalized
// once regardless of how often it repeats in the window.
func ApplyRepeatPenalty(logits []float32, penalty float32, recent []int) {
	if penalty == 1 || len(recent) == 0 {
		return
	}
	seen := make(map[int]struct{}, len(recent))
	for _, id := range recent {
		if id < 0 || id >= len(logits) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if logits[id] < 0 {
			logits[id] *= penalty
		} else {
			logits[id] /= penalty
		}
	}
}
