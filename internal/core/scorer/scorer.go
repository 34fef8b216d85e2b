package scorer

import (
	"math"
)

// Scorer classifies text against a loaded model.
// It holds no mutable state; share one instance across goroutines
type Scorer struct {
	m *Model
}

// New wraps a validated model in a Scorer
func New(m *Model) *Scorer { return &Scorer{m: m} }

// Open loads the artifact at path and returns a ready Scorer
func Open(path string) (*Scorer, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(m), nil
}

// Analyze classifies text and reports the winning class with the posterior
// probability as confidence. Text with no known features falls back to the
// class priors, so confidence degrades toward an even split rather than
// erroring
func (s *Scorer) Analyze(text string) (sentiment string, confidence float64) {
	m := s.m

	// term frequency over known vocabulary
	tf := make(map[int]float64)
	for _, t := range terms(tokenize(text)) {
		if idx, ok := m.Vocabulary[t]; ok {
			tf[idx]++
		}
	}

	// tf-idf with l2 normalization, matching the trainer
	var sq float64
	for idx, f := range tf {
		w := f * m.IDF[idx]
		tf[idx] = w
		sq += w * w
	}
	if sq > 0 {
		inv := 1 / math.Sqrt(sq)
		for idx := range tf {
			tf[idx] *= inv
		}
	}

	// joint log likelihood per class
	joint := make([]float64, len(m.Classes))
	for c := range m.Classes {
		ll := m.ClassLogPrior[c]
		row := m.FeatureLogProb[c]
		for idx, w := range tf {
			ll += w * row[idx]
		}
		joint[c] = ll
	}

	// softmax over the joint scores for a calibrated-ish posterior
	best := 0
	maxLL := joint[0]
	for c := 1; c < len(joint); c++ {
		if joint[c] > maxLL {
			maxLL = joint[c]
			best = c
		}
	}
	var denom float64
	for _, ll := range joint {
		denom += math.Exp(ll - maxLL)
	}
	conf := 1 / denom

	return m.Classes[best], conf
}
