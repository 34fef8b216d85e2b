// Package repo provides postgres access for stored predictions
package repo

import (
	"context"

	perr "sentimeter/internal/platform/errors"
	"sentimeter/internal/platform/store"

	"sentimeter/internal/modkit/repokit"
)

// Repo defines the repository contract for sentiment requests
type Repo interface {
	InsertRequest(ctx context.Context, userID, text, sentiment string, confidence, processingTime float64) (RowRequest, error)

	// ListByUser pages the caller's predictions ordered created_at desc
	// with id as the tie break
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]RowRequest, error)
}

// RowRequest represents a sentiment_requests row
type RowRequest struct {
	ID             int64
	UserID         string
	Text           string
	Sentiment      string
	Confidence     float64
	ProcessingTime float64
	CreatedAt      string
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

const requestCols = `id, user_id::text, text, sentiment, confidence, processing_time, created_at::text`

func (r *queries) InsertRequest(ctx context.Context, userID, text, sentiment string, confidence, processingTime float64) (RowRequest, error) {
	const sql = `
insert into sentiment_requests (user_id, text, sentiment, confidence, processing_time)
values ($1, $2, $3, $4, $5)
returning ` + requestCols
	row, err := store.One(ctx, r.q, scanRequest, sql, userID, text, sentiment, confidence, processingTime)
	if err != nil {
		return RowRequest{}, perr.FromPostgres(err, "insert request")
	}
	return row, nil
}

func (r *queries) ListByUser(ctx context.Context, userID string, skip, limit int) ([]RowRequest, error) {
	const sql = `
select ` + requestCols + `
from sentiment_requests
where user_id = $1::uuid
order by created_at desc, id desc
offset $2 limit $3
`
	out, err := store.Many(ctx, r.q, scanRequest, sql, userID, skip, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list history")
	}
	return out, nil
}

func scanRequest(row repokit.Row) (RowRequest, error) {
	var r RowRequest
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.Text,
		&r.Sentiment,
		&r.Confidence,
		&r.ProcessingTime,
		&r.CreatedAt,
	)
	return r, err
}
