// Package service implements synchronous scoring and history
package service

import (
	"context"
	"time"

	"sentimeter/internal/core/normalize"
	perr "sentimeter/internal/platform/errors"
	"sentimeter/internal/platform/metrics"

	"sentimeter/internal/modkit/repokit"
	"sentimeter/internal/services/api/sentiment/domain"
	"sentimeter/internal/services/api/sentiment/repo"
)

// Service is the sentiment business surface
type Service interface {
	domain.ServicePort
}

// Svc implements the sentiment service
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	repo   repo.Repo
	scorer domain.Scorer

	now func() time.Time
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], scorer domain.Scorer) *Svc {
	if db == nil {
		panic("sentiment.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("sentiment.Service requires a non nil Repo binder")
	}
	if scorer == nil {
		panic("sentiment.Service requires a non nil Scorer")
	}
	return &Svc{
		db:     db,
		binder: binder,
		repo:   binder.Bind(db),
		scorer: scorer,
		now:    time.Now,
	}
}

// Analyze scores the text, persists the record, and returns the prediction.
// Scoring itself cannot fail once the model is loaded; an insert failure
// fails the request rather than returning an unrecorded prediction
func (s *Svc) Analyze(ctx context.Context, userID, text string) (domain.AnalyzeResult, error) {
	// control bytes never reach the row
	text = normalize.Sanitize(text)

	start := s.now()
	sentiment, confidence := s.scorer.Analyze(text)
	elapsed := s.now().Sub(start).Seconds()

	metrics.Predictions.WithLabelValues(sentiment).Inc()
	metrics.ScoreSeconds.Observe(elapsed)

	if _, err := s.repo.InsertRequest(ctx, userID, text, sentiment, confidence, elapsed); err != nil {
		return domain.AnalyzeResult{}, err
	}
	return domain.AnalyzeResult{
		Text:           text,
		Sentiment:      sentiment,
		Confidence:     confidence,
		ProcessingTime: elapsed,
	}, nil
}

// History lists the caller's predictions. skip and limit follow the query
// params with upstream defaults, limit capped to keep pages bounded
func (s *Svc) History(ctx context.Context, userID string, skip, limit int) ([]domain.HistoryItem, error) {
	if skip < 0 {
		return nil, perr.Newf(perr.ErrorCodeValidation, "skip must not be negative")
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := s.repo.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	items := make([]domain.HistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.HistoryItem{
			ID:             r.ID,
			Text:           r.Text,
			Sentiment:      r.Sentiment,
			Confidence:     r.Confidence,
			ProcessingTime: r.ProcessingTime,
			CreatedAt:      r.CreatedAt,
		})
	}
	return items, nil
}
