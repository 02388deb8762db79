package auth

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "otpChallenges"

type Repository interface {
	Create(ctx context.Context, c Challenge) error
	GetByID(ctx context.Context, id string) (Challenge, error)
	// ReserveAttempt suma un intento solo si nadie lo modificó desde que se leyó;
	// errAttemptRace si otro request se adelantó.
	ReserveAttempt(ctx context.Context, c Challenge) error
	// MarkUsed cambia used false->true; ErrChallengeUsed si otro request ganó.
	MarkUsed(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Challenge]
}

func NewRepository(coll docstore.Collection[Challenge]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, c Challenge) error {
	return r.coll.Insert(ctx, c.ID, c)
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Challenge, error) {
	c, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Challenge{}, ErrChallengeNotFound
	}
	return c, err
}

func (r *docRepo) ReserveAttempt(ctx context.Context, c Challenge) error {
	err := r.coll.Update(ctx, c.ID,
		docstore.Filter{"attempts": c.Attempts, "used": false},
		docstore.Fields{"attempts": c.Attempts + 1},
	)
	switch {
	case errors.Is(err, docstore.ErrConflict):
		return errAttemptRace
	case errors.Is(err, docstore.ErrNotFound):
		return ErrChallengeNotFound
	}
	return err
}

func (r *docRepo) MarkUsed(ctx context.Context, id string) error {
	err := r.coll.Update(ctx, id, docstore.Filter{"used": false}, docstore.Fields{"used": true})
	switch {
	case errors.Is(err, docstore.ErrConflict):
		return ErrChallengeUsed
	case errors.Is(err, docstore.ErrNotFound):
		return ErrChallengeNotFound
	}
	return err
}
