// Package service implements the batch job submit, query and worker paths
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sentimeter/internal/core/normalize"
	perr "sentimeter/internal/platform/errors"
	"sentimeter/internal/platform/logger"
	"sentimeter/internal/platform/metrics"
	"sentimeter/internal/platform/queue"

	"sentimeter/internal/modkit/repokit"
	dom "sentimeter/internal/services/batch/domain"
	brepo "sentimeter/internal/services/batch/repo"
)

// Service implements the submit, query and handler ports
type Service interface {
	dom.SubmitPort
	dom.QueryPort
	dom.HandlerPort
}

// Svc implements the batch service
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[brepo.Repo]
	repo   brepo.Repo

	enq    queue.Enqueuer
	scorer dom.Scorer

	// lease bounds how long a claimed job may sit in processing before a
	// redelivery can re-claim it; sized to the worker task timeout
	lease time.Duration
}

// New constructs the service. The scorer may be nil on API-only processes
// that never handle dispatches
func New(db repokit.TxRunner, binder repokit.Binder[brepo.Repo], enq queue.Enqueuer, scorer dom.Scorer, lease time.Duration) *Svc {
	if db == nil {
		panic("batch.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("batch.Service requires a non nil Repo binder")
	}
	if lease <= 0 {
		lease = 2 * time.Minute
	}
	return &Svc{
		db:     db,
		binder: binder,
		repo:   binder.Bind(db),
		enq:    enq,
		scorer: scorer,
		lease:  lease,
	}
}

// Submit writes the pending job row first, then enqueues a dispatch message
// carrying only the task id. An enqueue failure after the row is committed
// leaves an orphaned pending job: it is logged, counted, and surfaced to the
// caller as a dependency error; StalePending makes it detectable
func (s *Svc) Submit(ctx context.Context, userID string, texts []string) (string, error) {
	if s.enq == nil {
		return "", perr.Unavailablef("job queue is not configured")
	}
	taskID := uuid.NewString()

	// control bytes never reach the jsonb payload
	clean := make([]string, len(texts))
	for i, t := range texts {
		clean[i] = normalize.Sanitize(t)
	}
	texts = clean

	payload, err := json.Marshal(texts)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "encode payload")
	}
	if err := s.repo.CreateJob(ctx, taskID, userID, dom.TaskTypeBatchAnalysis, payload); err != nil {
		return "", err
	}

	msg, err := json.Marshal(dom.Dispatch{TaskID: taskID})
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "encode dispatch")
	}
	if err := s.enq.Enqueue(ctx, dom.TaskTypeBatchAnalysis, msg); err != nil {
		metrics.JobsEnqueueFailures.Inc()
		logger.C(ctx).Error().Err(err).
			Str("task_id", taskID).
			Msg("dispatch enqueue failed after commit, job orphaned pending")
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "enqueue dispatch")
	}
	return taskID, nil
}

// Owned returns the caller's job or a not found that does not reveal
// whether the id exists under another owner
func (s *Svc) Owned(ctx context.Context, userID, taskID string) (dom.Job, error) {
	row, err := s.repo.GetOwned(ctx, userID, taskID)
	if err != nil {
		return dom.Job{}, err
	}
	return toJob(row)
}

func toJob(r brepo.RowJob) (dom.Job, error) {
	j := dom.Job{
		TaskID:       r.TaskID,
		UserID:       r.UserID,
		TaskType:     r.TaskType,
		Status:       r.Status,
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if len(r.Payload) > 0 {
		if err := json.Unmarshal(r.Payload, &j.Payload); err != nil {
			return dom.Job{}, perr.Wrap(err, perr.ErrorCodeUnknown, "decode payload")
		}
	}
	if len(r.Result) > 0 {
		j.Result = json.RawMessage(r.Result)
	}
	return j, nil
}
