package doctors

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "doctors"

type Repository interface {
	Create(ctx context.Context, d Doctor) error
	Update(ctx context.Context, d Doctor) error
	GetByID(ctx context.Context, id string) (Doctor, error)
	List(ctx context.Context, onlyActive bool) ([]Doctor, error)
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Doctor]
}

func NewRepository(coll docstore.Collection[Doctor]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, d Doctor) error {
	return r.coll.Insert(ctx, d.ID, d)
}

func (r *docRepo) Update(ctx context.Context, d Doctor) error {
	return notFound(r.coll.Replace(ctx, d.ID, d))
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Doctor, error) {
	d, err := r.coll.Get(ctx, id)
	return d, notFound(err)
}

func (r *docRepo) List(ctx context.Context, onlyActive bool) ([]Doctor, error) {
	f := docstore.Filter{}
	if onlyActive {
		f["active"] = true
	}
	return r.coll.Find(ctx, f, docstore.FindOptions{Sort: "name"})
}

func (r *docRepo) Delete(ctx context.Context, id string) error {
	return notFound(r.coll.Delete(ctx, id))
}

func notFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
