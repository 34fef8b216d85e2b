package service

import (
	"context"
	"encoding/json"
	"fmt"

	perr "sentimeter/internal/platform/errors"
	"sentimeter/internal/platform/logger"
	"sentimeter/internal/platform/metrics"
	"sentimeter/internal/platform/queue"

	dom "sentimeter/internal/services/batch/domain"
)

// HandleDispatch consumes one dispatch message. The claim is a conditional
// update, so a redelivered message for a settled job acks as a no-op while
// a crashed worker's job is re-claimed once its lease lapses and re-run from
// scratch. Scoring is all or nothing: any item failure fails the whole job
func (s *Svc) HandleDispatch(ctx context.Context, payload []byte) error {
	if s.scorer == nil {
		return fmt.Errorf("no scorer configured")
	}
	var d dom.Dispatch
	if err := json.Unmarshal(payload, &d); err != nil {
		// malformed messages never become valid, ack them
		logger.C(ctx).Error().Err(err).Msg("dispatch payload unreadable, dropping")
		return nil
	}
	log := logger.C(ctx).With().Str("task_id", d.TaskID).Logger()

	row, claimed, err := s.repo.ClaimJob(ctx, d.TaskID, s.lease)
	if err != nil {
		return err
	}
	if !claimed {
		status, err := s.repo.JobStatus(ctx, d.TaskID)
		switch {
		case err != nil && perr.IsCode(err, perr.ErrorCodeNotFound):
			log.Warn().Msg("dispatch for unknown job, ack no-op")
			return nil
		case err != nil:
			return err
		case status == dom.StatusCompleted || status == dom.StatusFailed:
			log.Debug().Msg("job already settled, ack no-op")
			return nil
		}
		// another worker holds the lease; redeliver so that a crash there
		// is recovered once the lease lapses
		log.Debug().Str("status", status).Msg("job lease held, redeliver")
		return fmt.Errorf("job %s lease held", d.TaskID)
	}

	var texts []string
	if err := json.Unmarshal(row.Payload, &texts); err != nil {
		return s.fail(ctx, d.TaskID, fmt.Sprintf("unreadable payload: %v", err))
	}

	results := make([]dom.ItemResult, 0, len(texts))
	for _, text := range texts {
		sentiment, confidence := s.scorer.Analyze(text)
		metrics.Predictions.WithLabelValues(sentiment).Inc()
		results = append(results, dom.ItemResult{
			Text:       text,
			Sentiment:  sentiment,
			Confidence: confidence,
		})
	}

	out, err := json.Marshal(results)
	if err != nil {
		return s.fail(ctx, d.TaskID, fmt.Sprintf("encode results: %v", err))
	}
	if err := s.repo.CompleteJob(ctx, d.TaskID, out); err != nil {
		if queue.LastAttempt(ctx) {
			return s.fail(ctx, d.TaskID, fmt.Sprintf("store results: %v", err))
		}
		return err
	}
	metrics.JobsProcessed.WithLabelValues(dom.StatusCompleted).Inc()
	log.Info().Int("items", len(results)).
		Int("attempt", queue.RetryCount(ctx)).
		Msg("batch job completed")
	return nil
}

// fail marks the job failed and acks the message
func (s *Svc) fail(ctx context.Context, taskID, msg string) error {
	if err := s.repo.FailJob(ctx, taskID, msg); err != nil {
		return err
	}
	metrics.JobsProcessed.WithLabelValues(dom.StatusFailed).Inc()
	logger.C(ctx).Warn().Str("task_id", taskID).Str("reason", msg).Msg("batch job failed")
	return nil
}
