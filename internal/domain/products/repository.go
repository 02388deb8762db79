package products

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "products"

type ListFilter struct {
	Category   string
	Tag        string
	ActiveOnly bool
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	GetByID(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, f ListFilter) ([]Product, error)
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Product]
}

func NewRepository(coll docstore.Collection[Product]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, p Product) error {
	return r.coll.Insert(ctx, p.ID, p)
}

func (r *docRepo) Update(ctx context.Context, p Product) error {
	return notFound(r.coll.Replace(ctx, p.ID, p))
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Product, error) {
	p, err := r.coll.Get(ctx, id)
	return p, notFound(err)
}

// List filtra tag en memoria: la igualdad del docstore es sobre campos escalares.
func (r *docRepo) List(ctx context.Context, f ListFilter) ([]Product, error) {
	q := docstore.Filter{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.ActiveOnly {
		q["active"] = true
	}
	opts := docstore.FindOptions{Sort: "createdAt", Desc: true}
	if f.Tag == "" {
		opts.Limit = f.Limit
	}
	items, err := r.coll.Find(ctx, q, opts)
	if err != nil || f.Tag == "" {
		return items, err
	}

	out := make([]Product, 0, len(items))
	for _, p := range items {
		if !p.HasTag(f.Tag) {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
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
