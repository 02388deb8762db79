package grooming

import (
	"context"
	"errors"
	"time"

	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/ports/docstore"
)

const Collection = "groomingBookings"

type ListFilter struct {
	Status lifecycle.Status
	Date   string
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, b Booking) error
	Update(ctx context.Context, b Booking) error
	GetByID(ctx context.Context, id string) (Booking, error)
	List(ctx context.Context, f ListFilter) ([]Booking, error)
	SetStatus(ctx context.Context, id string, from, to lifecycle.Status, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Booking]
}

func NewRepository(coll docstore.Collection[Booking]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, b Booking) error {
	return r.coll.Insert(ctx, b.ID, b)
}

func (r *docRepo) Update(ctx context.Context, b Booking) error {
	return mapErr(r.coll.Replace(ctx, b.ID, b))
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Booking, error) {
	b, err := r.coll.Get(ctx, id)
	return b, mapErr(err)
}

func (r *docRepo) List(ctx context.Context, f ListFilter) ([]Booking, error) {
	q := docstore.Filter{}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Date != "" {
		q["date"] = f.Date
	}
	return r.coll.Find(ctx, q, docstore.FindOptions{Sort: "createdAt", Desc: true, Limit: f.Limit})
}

func (r *docRepo) SetStatus(ctx context.Context, id string, from, to lifecycle.Status, at time.Time) error {
	err := r.coll.Update(ctx, id,
		docstore.Filter{"status": string(from)},
		docstore.Fields{"status": string(to), "updatedAt": at},
	)
	return mapErr(err)
}

func (r *docRepo) Delete(ctx context.Context, id string) error {
	return mapErr(r.coll.Delete(ctx, id))
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, docstore.ErrConflict):
		return ErrConcurrentUpdate
	}
	return err
}
