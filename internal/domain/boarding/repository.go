package boarding

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "petBoardingCenters"

type Repository interface {
	Create(ctx context.Context, c Center) error
	Update(ctx context.Context, c Center) error
	GetByID(ctx context.Context, id string) (Center, error)
	List(ctx context.Context, status Status, city string) ([]Center, error)
	// Decide pasa de pending al estado final; ErrNotPending si ya se decidió.
	Decide(ctx context.Context, id string, set docstore.Fields) error
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Center]
}

func NewRepository(coll docstore.Collection[Center]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, c Center) error {
	return r.coll.Insert(ctx, c.ID, c)
}

func (r *docRepo) Update(ctx context.Context, c Center) error {
	return mapErr(r.coll.Replace(ctx, c.ID, c))
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Center, error) {
	c, err := r.coll.Get(ctx, id)
	return c, mapErr(err)
}

func (r *docRepo) List(ctx context.Context, status Status, city string) ([]Center, error) {
	f := docstore.Filter{}
	if status != "" {
		f["status"] = string(status)
	}
	if city != "" {
		f["city"] = city
	}
	return r.coll.Find(ctx, f, docstore.FindOptions{Sort: "createdAt", Desc: true})
}

func (r *docRepo) Decide(ctx context.Context, id string, set docstore.Fields) error {
	return mapErr(r.coll.Update(ctx, id, docstore.Filter{"status": string(StatusPending)}, set))
}

func (r *docRepo) Delete(ctx context.Context, id string) error {
	return mapErr(r.coll.Delete(ctx, id))
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, docstore.ErrConflict):
		return ErrNotPending
	}
	return err
}
