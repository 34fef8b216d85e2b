package scorer

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed corpus.json
var embeddedCorpus []byte

// Corpus returns the embedded labeled training samples
func Corpus() ([]Sample, error) {
	var samples []Sample
	if err := json.Unmarshal(embeddedCorpus, &samples); err != nil {
		return nil, fmt.Errorf("scorer: parse corpus.json: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("scorer: corpus.json is empty")
	}
	return samples, nil
}
