// Package logits implements the sampling policy of the decode loop:
// turning one logits vector into one token id under a strategy fixed
// at generation setup.
package logits

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// DefaultSeed seeds the sampler when a request does not carry one, so
// identical requests reproduce identical output.
const DefaultSeed = 299792458

// ErrDegenerateLogits is returned when a logits vector contains no
// finite value to sample from. It is fatal for the generation that
// produced it.
var ErrDegenerateLogits = errors.New("logits: no finite values to sample from")

// SamplerConfig selects the sampling strategy. The dispatch happens
// once in NewSampler and never changes for the sampler's lifetime:
//
//	temperature <= 0          -> argmax
//	top-k and top-p unset     -> full-distribution sampling
//	top-k only                -> top-k
//	top-p only                -> nucleus
//	both                      -> top-k, then nucleus on the shortlist
//
// TopK <= 0 and TopP outside (0, 1] count as unset.
type SamplerConfig struct {
	Seed        int64
	Temperature float64
	TopK        int
	TopP        float64
}

type strategy int

const (
	sampleArgMax strategy = iota
	sampleAll
	sampleTopK
	sampleTopP
	sampleTopKTopP
)

type Sampler struct {
	rng  *rand.Rand
	how  strategy
	temp float64
	topK int
	topP float64

	// scratch, reused across steps of one generation
	prob []float64
	idx  []int
}

// NewSampler builds a sampler for one generation. The random source is
// owned by the sampler and must not be shared across generations.
func NewSampler(cfg SamplerConfig) *Sampler {
	seed := cfg.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	hasK := cfg.TopK > 0
	hasP := cfg.TopP > 0 && cfg.TopP <= 1

	how := sampleArgMax
	if cfg.Temperature > 0 {
		switch {
		case hasK && hasP:
			how = sampleTopKTopP
		case hasK:
			how = sampleTopK
		case hasP:
			how = sampleTopP
		default:
			how = sampleAll
		}
	}

	return &Sampler{
		rng:  rand.New(rand.NewSource(seed)),
		how:  how,
		temp: cfg.Temperature,
		topK: cfg.TopK,
		topP: cfg.TopP,
	}
}

// Sample draws one token id from the logits vector. The vector is not
// modified.
func (s *Sampler) Sample(logits []float32) (int, error) {
	if len(logits) == 0 {
		return 0, ErrDegenerateLogits
	}
	switch s.how {
	case sampleArgMax:
		return argmax(logits)
	case sampleAll:
		return s.sampleAll(logits)
	case sampleTopK:
		return s.sampleShortlist(logits, s.topK, 1)
	case sampleTopP:
		return s.sampleNucleus(logits)
	default:
		return s.sampleShortlist(logits, s.topK, s.topP)
	}
}

// argmax picks the highest finite logit; ties go to the lowest index.
func argmax(logits []float32) (int, error) {
	bestI := -1
	var bestV float32
	for i, v := range logits {
		if !finite(v) {
			continue
		}
		if bestI == -1 || v > bestV {
			bestI = i
			bestV = v
		}
	}
	if bestI == -1 {
		return 0, ErrDegenerateLogits
	}
	return bestI, nil
}

// sampleAll softmaxes the full temperature-scaled distribution and
// samples proportionally.
func (s *Sampler) sampleAll(logits []float32) (int, error) {
	maxI, err := argmax(logits)
	if err != nil {
		return 0, err
	}
	maxV := float64(logits[maxI]) / s.temp

	if cap(s.prob) < len(logits) {
		s.prob = make([]float64, len(logits))
	}
	prob := s.prob[:len(logits)]

	var sum float64
	for i, v := range logits {
		if !finite(v) {
			prob[i] = 0
			continue
		}
		e := math.Exp(float64(v)/s.temp - maxV)
		prob[i] = e
		sum += e
	}
	if sum == 0 {
		return maxI, nil
	}

	r := s.rng.Float64() * sum
	var c float64
	for i, p := range prob {
		c += p
		if r <= c {
			return i, nil
		}
	}
	return maxI, nil
}

// sampleNucleus sorts the full distribution descending, keeps the
// smallest prefix whose cumulative probability reaches top-p, and
// samples within it.
func (s *Sampler) sampleNucleus(logits []float32) (int, error) {
	idx, prob, err := s.softmaxSorted(logits, len(logits))
	if err != nil {
		return 0, err
	}
	return s.pickPrefix(idx, prob, s.topP)
}

// sampleShortlist restricts to the k highest logits first, then
// applies a nucleus cut on the renormalized shortlist. A cut of 1
// keeps the whole shortlist (plain top-k).
func (s *Sampler) sampleShortlist(logits []float32, k int, cut float64) (int, error) {
	if k > len(logits) {
		k = len(logits)
	}
	idx, prob, err := s.softmaxSorted(logits, k)
	if err != nil {
		return 0, err
	}
	return s.pickPrefix(idx, prob, cut)
}

// softmaxSorted returns the indices of the k largest finite logits in
// descending order together with their softmax probabilities,
// renormalized over the shortlist.
func (s *Sampler) softmaxSorted(logits []float32, k int) ([]int, []float64, error) {
	if cap(s.idx) < len(logits) {
		s.idx = make([]int, len(logits))
	}
	idx := s.idx[:0]
	for i, v := range logits {
		if finite(v) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, nil, ErrDegenerateLogits
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return logits[idx[a]] > logits[idx[b]]
	})
	if k < len(idx) {
		idx = idx[:k]
	}

	maxV := float64(logits[idx[0]]) / s.temp
	if cap(s.prob) < len(idx) {
		s.prob = make([]float64, len(idx))
	}
	prob := s.prob[:len(idx)]
	var sum float64
	for i, id := range idx {
		e := math.Exp(float64(logits[id])/s.temp - maxV)
		prob[i] = e
		sum += e
	}
	if sum == 0 {
		prob[0] = 1
		prob = prob[:1]
		idx = idx[:1]
		sum = 1
	}
	inv := 1 / sum
	for i := range prob {
		prob[i] *= inv
	}
	return idx, prob, nil
}

// pickPrefix truncates a descending distribution at cumulative
// probability cut, then samples from the prefix.
func (s *Sampler) pickPrefix(idx []int, prob []float64, cut float64) (int, error) {
	n := len(prob)
	if cut < 1 {
		var c float64
		for i, p := range prob {
			c += p
			if c >= cut {
				n = i + 1
				break
			}
		}
	}

	var total float64
	for _, p := range prob[:n] {
		total += p
	}
	r := s.rng.Float64() * total
	var c float64
	for i := 0; i < n; i++ {
		c += prob[i]
		if r <= c {
			return idx[i], nil
		}
	}
	return idx[n-1], nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
