// Package repo provides postgres access for the user store
package repo

import (
	"context"
	"errors"

	perr "sentimeter/internal/platform/errors"
	"sentimeter/internal/platform/store"

	"sentimeter/internal/modkit/repokit"
)

// Repo defines the repository contract for the user store
type Repo interface {
	Create(ctx context.Context, id, email, username, hashedPassword string) (RowUser, error)
	GetByUsername(ctx context.Context, username string) (RowUser, error)
	GetByID(ctx context.Context, id string) (RowUser, error)

	// GetByUsernameOrEmail finds a user holding either handle; used as the
	// registration uniqueness check. The DB constraints stay the race-safe
	// enforcement
	GetByUsernameOrEmail(ctx context.Context, username, email string) (RowUser, error)
}

// RowUser represents a user row from the database
type RowUser struct {
	ID             string
	Email          string
	Username       string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      string
	UpdatedAt      string
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const userCols = `
id::text, email, username, hashed_password, is_active, is_superuser,
created_at::text, updated_at::text
`

// Create inserts a new user row. Uniqueness on username and email is a DB
// constraint so concurrent registration races resolve at the store
func (r *queries) Create(ctx context.Context, id, email, username, hashedPassword string) (RowUser, error) {
	const sql = `
insert into users (id, email, username, hashed_password)
values ($1, $2, $3, $4)
returning ` + userCols
	u, err := store.One(ctx, r.q, scanUser, sql, id, email, username, hashedPassword)
	if err != nil {
		return RowUser{}, perr.FromPostgres(err, "create user")
	}
	return u, nil
}

func (r *queries) GetByUsername(ctx context.Context, username string) (RowUser, error) {
	const sql = `select ` + userCols + ` from users where username = $1`
	return r.one(ctx, sql, username)
}

func (r *queries) GetByID(ctx context.Context, id string) (RowUser, error) {
	const sql = `select ` + userCols + ` from users where id = $1::uuid`
	return r.one(ctx, sql, id)
}

func (r *queries) GetByUsernameOrEmail(ctx context.Context, username, email string) (RowUser, error) {
	// limit 1: both handles may be taken, by different rows
	const sql = `select ` + userCols + ` from users where username = $1 or email = $2 limit 1`
	return r.one(ctx, sql, username, email)
}

func (r *queries) one(ctx context.Context, sql string, args ...any) (RowUser, error) {
	u, err := store.One(ctx, r.q, scanUser, sql, args...)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return RowUser{}, perr.NotFoundf("user not found")
		}
		return RowUser{}, perr.FromPostgres(err, "get user")
	}
	return u, nil
}

func scanUser(row repokit.Row) (RowUser, error) {
	var u RowUser
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.HashedPassword,
		&u.IsActive,
		&u.IsSuperuser,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}
