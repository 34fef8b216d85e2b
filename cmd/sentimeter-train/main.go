// Trains the sentiment model on the embedded corpus and writes the
// artifact consumed by the api and worker processes
package main

import (
	"flag"
	"os"
	"path/filepath"

	"sentimeter/internal/core/scorer"
	"sentimeter/internal/platform/logger"
)

func main() {
	out := flag.String("out", "models/sentiment_model.json", "model artifact path")
	maxFeatures := flag.Int("max_features", 5000, "vocabulary cap")
	flag.Parse()

	l := logger.Get()

	samples, err := scorer.Corpus()
	if err != nil {
		l.Fatal().Err(err).Msg("corpus load failed")
	}
	l.Info().Int("samples", len(samples)).Msg("training")

	m, err := scorer.Train(samples, scorer.TrainOptions{MaxFeatures: *maxFeatures})
	if err != nil {
		l.Fatal().Err(err).Msg("training failed")
	}

	// training-set accuracy; the corpus is tiny so there is no held-out split
	s := scorer.New(m)
	correct := 0
	for _, sm := range samples {
		label, _ := s.Analyze(sm.Text)
		want := scorer.LabelNegative
		if sm.Label == 1 {
			want = scorer.LabelPositive
		}
		if label == want {
			correct++
		}
	}
	l.Info().
		Int("correct", correct).
		Int("total", len(samples)).
		Float64("accuracy", float64(correct)/float64(len(samples))).
		Msg("evaluation")

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		l.Fatal().Err(err).Msg("mkdir failed")
	}
	if err := m.Save(*out); err != nil {
		l.Fatal().Err(err).Msg("save failed")
	}
	l.Info().Str("path", *out).Msg("model saved")

	for _, text := range []string{"This is great!", "This is terrible!", "I love it!", "I hate it!"} {
		label, conf := s.Analyze(text)
		l.Info().Str("text", text).Str("sentiment", label).Float64("confidence", conf).Msg("prediction")
	}
}
