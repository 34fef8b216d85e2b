// Package repo provides postgres access for the job store
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	perr "sentimeter/internal/platform/errors"
	"sentimeter/internal/platform/store"

	"sentimeter/internal/modkit/repokit"
)

// Repo defines the repository contract for batch jobs
type Repo interface {
	CreateJob(ctx context.Context, taskID, userID, taskType string, payload []byte) error

	// ClaimJob flips one pending job to processing and returns its payload.
	// A processing row whose lease has lapsed (updated_at older than lease)
	// is claimable again, so a redelivery after a worker crash re-runs the
	// job instead of stranding it. claimed is false when the job is missing,
	// terminal, or still leased
	ClaimJob(ctx context.Context, taskID string, lease time.Duration) (row RowJob, claimed bool, err error)

	// JobStatus peeks at the current status without touching the row
	JobStatus(ctx context.Context, taskID string) (string, error)

	// CompleteJob and FailJob only land on processing rows; terminal rows
	// absorb the write as a no-op
	CompleteJob(ctx context.Context, taskID string, result []byte) error
	FailJob(ctx context.Context, taskID, errorMessage string) error

	GetOwned(ctx context.Context, userID, taskID string) (RowJob, error)

	// StalePending lists jobs stuck in pending longer than age, the
	// operational signature of an enqueue that failed after commit
	StalePending(ctx context.Context, age time.Duration, limit int) ([]RowJob, error)
}

// RowJob represents a background task row
type RowJob struct {
	TaskID       string
	UserID       string
	TaskType     string
	Status       string
	Payload      []byte
	Result       []byte
	ErrorMessage *string
	CreatedAt    string
	UpdatedAt    string
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const jobCols = `
task_id::text, user_id::text, task_type, status, payload, result,
error_message, created_at::text, updated_at::text
`

func (r *queries) CreateJob(ctx context.Context, taskID, userID, taskType string, payload []byte) error {
	const sql = `
insert into background_tasks (task_id, user_id, task_type, status, payload)
values ($1, $2, $3, 'pending', $4)
`
	if _, err := r.q.Exec(ctx, sql, taskID, userID, taskType, payload); err != nil {
		return perr.FromPostgres(err, "create job")
	}
	return nil
}

func (r *queries) ClaimJob(ctx context.Context, taskID string, lease time.Duration) (RowJob, bool, error) {
	if lease <= 0 {
		lease = 2 * time.Minute
	}
	// conditional update: under N concurrent claims exactly one sees a row.
	// updated_at doubles as the lease stamp, bumped on every claim
	const sql = `
update background_tasks
set status = 'processing', updated_at = now()
where task_id = $1
  and (status = 'pending'
       or (status = 'processing' and updated_at < now() - make_interval(secs => $2)))
returning ` + jobCols
	j, err := store.One(ctx, r.q, scanJob, sql, taskID, lease.Seconds())
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return RowJob{}, false, nil
		}
		return RowJob{}, false, perr.FromPostgres(err, "claim job")
	}
	return j, true, nil
}

func (r *queries) JobStatus(ctx context.Context, taskID string) (string, error) {
	const sql = `select status from background_tasks where task_id = $1`
	status, err := store.Scalar[string](ctx, r.q, sql, taskID)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return "", perr.NotFoundf("Task not found")
		}
		return "", perr.FromPostgres(err, "job status")
	}
	return status, nil
}

func (r *queries) CompleteJob(ctx context.Context, taskID string, result []byte) error {
	const sql = `
update background_tasks
set status = 'completed', result = $2, error_message = null, updated_at = now()
where task_id = $1 and status = 'processing'
`
	if _, err := r.q.Exec(ctx, sql, taskID, result); err != nil {
		return perr.FromPostgres(err, "complete job")
	}
	return nil
}

func (r *queries) FailJob(ctx context.Context, taskID, errorMessage string) error {
	const sql = `
update background_tasks
set status = 'failed', result = null, error_message = $2, updated_at = now()
where task_id = $1 and status = 'processing'
`
	if _, err := r.q.Exec(ctx, sql, taskID, errorMessage); err != nil {
		return perr.FromPostgres(err, "fail job")
	}
	return nil
}

func (r *queries) GetOwned(ctx context.Context, userID, taskID string) (RowJob, error) {
	const sql = `select ` + jobCols + ` from background_tasks where task_id = $1 and user_id = $2::uuid`
	j, err := store.One(ctx, r.q, scanJob, sql, taskID, userID)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return RowJob{}, perr.NotFoundf("Task not found")
		}
		return RowJob{}, perr.FromPostgres(err, "get job")
	}
	return j, nil
}

func (r *queries) StalePending(ctx context.Context, age time.Duration, limit int) ([]RowJob, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const sql = `
select ` + jobCols + `
from background_tasks
where status = 'pending' and created_at < now() - make_interval(secs => $1)
order by created_at asc
limit $2
`
	out, err := store.Many(ctx, r.q, scanJob, sql, age.Seconds(), limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "stale pending")
	}
	return out, nil
}

func scanJob(row repokit.Row) (RowJob, error) {
	var j RowJob
	err := row.Scan(
		&j.TaskID,
		&j.UserID,
		&j.TaskType,
		&j.Status,
		&j.Payload,
		&j.Result,
		&j.ErrorMessage,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}
