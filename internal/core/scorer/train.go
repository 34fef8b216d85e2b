package scorer

import (
	"fmt"
	"math"
	"sort"
)

// Sample is one labeled training document
type Sample struct {
	Text  string `json:"text"`
	Label int    `json:"label"` // 0 negative, 1 positive
}

// TrainOptions bounds the fitted vocabulary
type TrainOptions struct {
	// MaxFeatures caps the vocabulary, keeping the most frequent terms.
	// Zero means unlimited
	MaxFeatures int

	// Alpha is the Laplace smoothing constant, default 1.0
	Alpha float64
}

// Train fits TF-IDF weights and multinomial naive Bayes parameters on the
// samples and returns a ready-to-save model
func Train(samples []Sample, opts TrainOptions) (*Model, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("scorer: no training samples")
	}
	if opts.Alpha <= 0 {
		opts.Alpha = 1.0
	}

	type doc struct {
		terms []string
		label int
	}
	docs := make([]doc, 0, len(samples))
	df := map[string]int{}   // document frequency
	freq := map[string]int{} // corpus-wide term frequency, for MaxFeatures
	classCount := map[int]int{}

	for _, s := range samples {
		if s.Label != 0 && s.Label != 1 {
			return nil, fmt.Errorf("scorer: label %d out of range for %q", s.Label, s.Text)
		}
		ts := terms(tokenize(s.Text))
		docs = append(docs, doc{terms: ts, label: s.Label})
		classCount[s.Label]++
		seen := map[string]struct{}{}
		for _, t := range ts {
			freq[t]++
			if _, dup := seen[t]; !dup {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}
	if classCount[0] == 0 || classCount[1] == 0 {
		return nil, fmt.Errorf("scorer: training corpus must contain both classes")
	}

	// vocabulary: most frequent terms first when capped, then stable
	// lexicographic column order
	vocabTerms := make([]string, 0, len(freq))
	for t := range freq {
		vocabTerms = append(vocabTerms, t)
	}
	if opts.MaxFeatures > 0 && len(vocabTerms) > opts.MaxFeatures {
		sort.Slice(vocabTerms, func(i, j int) bool {
			if freq[vocabTerms[i]] != freq[vocabTerms[j]] {
				return freq[vocabTerms[i]] > freq[vocabTerms[j]]
			}
			return vocabTerms[i] < vocabTerms[j]
		})
		vocabTerms = vocabTerms[:opts.MaxFeatures]
	}
	sort.Strings(vocabTerms)

	vocab := make(map[string]int, len(vocabTerms))
	for i, t := range vocabTerms {
		vocab[t] = i
	}

	// smoothed idf: ln((1+n)/(1+df)) + 1
	n := float64(len(docs))
	idf := make([]float64, len(vocabTerms))
	for t, i := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	// per-class tf-idf mass per term
	featSum := [2][]float64{
		make([]float64, len(vocabTerms)),
		make([]float64, len(vocabTerms)),
	}
	for _, d := range docs {
		tf := map[int]float64{}
		for _, t := range d.terms {
			if idx, ok := vocab[t]; ok {
				tf[idx]++
			}
		}
		var sq float64
		for idx, f := range tf {
			w := f * idf[idx]
			tf[idx] = w
			sq += w * w
		}
		if sq > 0 {
			inv := 1 / math.Sqrt(sq)
			for idx, w := range tf {
				featSum[d.label][idx] += w * inv
			}
		}
	}

	// naive Bayes parameters with Laplace smoothing
	logPrior := make([]float64, 2)
	featLogProb := make([][]float64, 2)
	for c := 0; c < 2; c++ {
		logPrior[c] = math.Log(float64(classCount[c]) / n)
		var total float64
		for _, w := range featSum[c] {
			total += w
		}
		denom := total + opts.Alpha*float64(len(vocabTerms))
		row := make([]float64, len(vocabTerms))
		for i, w := range featSum[c] {
			row[i] = math.Log((w + opts.Alpha) / denom)
		}
		featLogProb[c] = row
	}

	return &Model{
		Version:        CurrentVersion,
		Classes:        []string{LabelNegative, LabelPositive},
		Vocabulary:     vocab,
		IDF:            idf,
		ClassLogPrior:  logPrior,
		FeatureLogProb: featLogProb,
	}, nil
}
