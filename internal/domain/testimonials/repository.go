package testimonials

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "testimonials"

type Repository interface {
	Create(ctx context.Context, t Testimonial) error
	Update(ctx context.Context, t Testimonial) error
	GetByID(ctx context.Context, id string) (Testimonial, error)
	List(ctx context.Context, publishedOnly bool, limit int) ([]Testimonial, error)
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Testimonial]
}

func NewRepository(coll docstore.Collection[Testimonial]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, t Testimonial) error {
	return r.coll.Insert(ctx, t.ID, t)
}

func (r *docRepo) Update(ctx context.Context, t Testimonial) error {
	return notFound(r.coll.Replace(ctx, t.ID, t))
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Testimonial, error) {
	t, err := r.coll.Get(ctx, id)
	return t, notFound(err)
}

func (r *docRepo) List(ctx context.Context, publishedOnly bool, limit int) ([]Testimonial, error) {
	f := docstore.Filter{}
	if publishedOnly {
		f["published"] = true
	}
	return r.coll.Find(ctx, f, docstore.FindOptions{Sort: "createdAt", Desc: true, Limit: limit})
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
