// Package scorer implements TF-IDF multinomial naive Bayes sentiment
// classification over folded unigrams and bigrams. A model artifact is
// loaded once per process and is immutable afterwards, so a single Scorer
// is safe for concurrent use without locks
package scorer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Class labels, index-aligned with the model arrays
const (
	LabelNegative = "negative"
	LabelPositive = "positive"
)

// Model is the serialized artifact produced by the trainer
type Model struct {
	Version int      `json:"version"`
	Classes []string `json:"classes"`

	// Vocabulary maps a term (unigram or space-joined bigram) to its
	// column in IDF and FeatureLogProb
	Vocabulary map[string]int `json:"vocabulary"`

	// IDF carries the smoothed inverse document frequencies
	IDF []float64 `json:"idf"`

	// ClassLogPrior and FeatureLogProb are the naive Bayes parameters,
	// one row per class
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// CurrentVersion is the artifact format this package reads and writes
const CurrentVersion = 1

// Load reads and validates a model artifact.
// A missing or corrupt file is an error the caller must treat as fatal
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scorer: read model artifact: %w", err)
	}
	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("scorer: parse model artifact: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("scorer: invalid model artifact: %w", err)
	}
	return &m, nil
}

// Save writes the artifact to path
func (m *Model) Save(path string) error {
	if err := m.validate(); err != nil {
		return fmt.Errorf("scorer: refusing to save invalid model: %w", err)
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("scorer: encode model: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("scorer: write model artifact: %w", err)
	}
	return nil
}

func (m *Model) validate() error {
	if m.Version != CurrentVersion {
		return fmt.Errorf("unsupported version %d (want %d)", m.Version, CurrentVersion)
	}
	nc := len(m.Classes)
	if nc < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", nc)
	}
	nv := len(m.Vocabulary)
	if nv == 0 {
		return fmt.Errorf("empty vocabulary")
	}
	if len(m.IDF) != nv {
		return fmt.Errorf("idf length %d does not match vocabulary size %d", len(m.IDF), nv)
	}
	if len(m.ClassLogPrior) != nc {
		return fmt.Errorf("class_log_prior length %d does not match classes %d", len(m.ClassLogPrior), nc)
	}
	if len(m.FeatureLogProb) != nc {
		return fmt.Errorf("feature_log_prob rows %d do not match classes %d", len(m.FeatureLogProb), nc)
	}
	for c, row := range m.FeatureLogProb {
		if len(row) != nv {
			return fmt.Errorf("feature_log_prob row %d length %d does not match vocabulary size %d", c, len(row), nv)
		}
	}
	for term, idx := range m.Vocabulary {
		if idx < 0 || idx >= nv {
			return fmt.Errorf("vocabulary index %d for %q out of range", idx, term)
		}
	}
	return nil
}
