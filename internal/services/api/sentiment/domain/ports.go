package domain

import "context"

// ServicePort is the sync scoring surface consumed by the http layer
type ServicePort interface {
	// Analyze scores one text, persists the prediction, and reports the
	// wall-clock scoring duration in seconds
	Analyze(ctx context.Context, userID, text string) (AnalyzeResult, error)

	// History lists the caller's stored predictions, most recent first
	History(ctx context.Context, userID string, skip, limit int) ([]HistoryItem, error)
}

// Scorer is the loaded-once classification engine seam
type Scorer interface {
	Analyze(text string) (sentiment string, confidence float64)
}
