// Package service contains auth workflows
package service

import (
	"context"

	"github.com/google/uuid"

	perr "sentimeter/internal/platform/errors"

	"sentimeter/internal/modkit/repokit"
	"sentimeter/internal/services/api/auth/domain"
	"sentimeter/internal/services/api/auth/repo"
)

// Service defines the service contract for auth
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	signer *Signer
}

// New creates a new auth service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], signer *Signer) *Svc {
	if db == nil {
		panic("auth.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("auth.Service requires a non nil Repo binder")
	}
	if signer == nil {
		panic("auth.Service requires a non nil Signer")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, signer: signer}
}

// Register creates a new user with a bcrypt-hashed secret.
// A username or email collision surfaces as Conflict with a deliberately
// ambiguous message so the caller cannot tell which field collided
func (s *Svc) Register(ctx context.Context, in domain.RegisterInput) (domain.User, error) {
	// uniqueness read runs first; the DB constraints still catch the race
	// where two registrations pass this check concurrently
	if _, err := s.Repo.GetByUsernameOrEmail(ctx, in.Username, in.Email); err == nil {
		return domain.User{}, perr.Conflictf("Username or email already registered")
	} else if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.User{}, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return domain.User{}, perr.Wrap(err, perr.ErrorCodeUnknown, "hash password")
	}
	row, err := s.Repo.Create(ctx, uuid.NewString(), in.Email, in.Username, hashed)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
			return domain.User{}, perr.Conflictf("Username or email already registered")
		}
		return domain.User{}, err
	}
	return toUser(row), nil
}

// Login verifies the credentials and mints a bearer token.
// Unknown username and wrong password return the identical error
func (s *Svc) Login(ctx context.Context, in domain.LoginInput) (domain.Token, error) {
	row, err := s.Repo.GetByUsername(ctx, in.Username)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Token{}, perr.Unauthorizedf("Incorrect username or password")
		}
		return domain.Token{}, err
	}
	if !VerifyPassword(in.Password, row.HashedPassword) {
		return domain.Token{}, perr.Unauthorizedf("Incorrect username or password")
	}
	tok, err := s.signer.Issue(row.Username)
	if err != nil {
		return domain.Token{}, perr.Wrap(err, perr.ErrorCodeUnknown, "issue token")
	}
	return domain.Token{AccessToken: tok, TokenType: "bearer"}, nil
}

// Authorize resolves a raw bearer token to an active user.
// A valid signature over a missing or deactivated subject is rejected
// exactly like a bad token
func (s *Svc) Authorize(ctx context.Context, raw string) (domain.User, error) {
	sub, ok := s.signer.Verify(raw)
	if !ok {
		return domain.User{}, perr.Unauthorizedf("Could not validate credentials")
	}
	row, err := s.Repo.GetByUsername(ctx, sub)
	if err != nil || !row.IsActive {
		return domain.User{}, perr.Unauthorizedf("Could not validate credentials")
	}
	return toUser(row), nil
}

// UserByID resolves an already-authenticated user id
func (s *Svc) UserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toUser(row), nil
}

func toUser(r repo.RowUser) domain.User {
	return domain.User{
		ID:          r.ID,
		Email:       r.Email,
		Username:    r.Username,
		IsActive:    r.IsActive,
		IsSuperuser: r.IsSuperuser,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
