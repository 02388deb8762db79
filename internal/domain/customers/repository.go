package customers

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "users"

type Repository interface {
	Create(ctx context.Context, c Customer) error
	Update(ctx context.Context, c Customer) error
	GetByID(ctx context.Context, id string) (Customer, error)
	FindByEmail(ctx context.Context, email string) (Customer, error)
	List(ctx context.Context, limit int) ([]Customer, error)
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Customer]
}

func NewRepository(coll docstore.Collection[Customer]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, c Customer) error {
	return r.coll.Insert(ctx, c.ID, c)
}

func (r *docRepo) Update(ctx context.Context, c Customer) error {
	return mapNotFound(r.coll.Replace(ctx, c.ID, c))
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Customer, error) {
	c, err := r.coll.Get(ctx, id)
	return c, mapNotFound(err)
}

func (r *docRepo) FindByEmail(ctx context.Context, email string) (Customer, error) {
	items, err := r.coll.Find(ctx, docstore.Filter{"email": email}, docstore.FindOptions{Limit: 1})
	if err != nil {
		return Customer{}, err
	}
	if len(items) == 0 {
		return Customer{}, ErrNotFound
	}
	return items[0], nil
}

func (r *docRepo) List(ctx context.Context, limit int) ([]Customer, error) {
	return r.coll.Find(ctx, nil, docstore.FindOptions{Sort: "createdAt", Desc: true, Limit: limit})
}

func (r *docRepo) Delete(ctx context.Context, id string) error {
	return mapNotFound(r.coll.Delete(ctx, id))
}

func mapNotFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
