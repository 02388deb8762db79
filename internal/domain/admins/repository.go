package admins

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "admin"

type Repository interface {
	Create(ctx context.Context, a Admin) error
	Update(ctx context.Context, a Admin) error
	GetByID(ctx context.Context, id string) (Admin, error)
	// FindByUsername / FindByEmail devuelven ErrNotFound si no hay match.
	FindByUsername(ctx context.Context, username string) (Admin, error)
	FindByEmail(ctx context.Context, email string) (Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Admin]
}

func NewRepository(coll docstore.Collection[Admin]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, a Admin) error {
	return r.coll.Insert(ctx, a.ID, a)
}

func (r *docRepo) Update(ctx context.Context, a Admin) error {
	return r.coll.Replace(ctx, a.ID, a)
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Admin, error) {
	a, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Admin{}, ErrNotFound
	}
	return a, err
}

func (r *docRepo) FindByUsername(ctx context.Context, username string) (Admin, error) {
	return r.findOne(ctx, docstore.Filter{"username": username})
}

func (r *docRepo) FindByEmail(ctx context.Context, email string) (Admin, error) {
	return r.findOne(ctx, docstore.Filter{"email": email})
}

func (r *docRepo) findOne(ctx context.Context, f docstore.Filter) (Admin, error) {
	items, err := r.coll.Find(ctx, f, docstore.FindOptions{Limit: 1})
	if err != nil {
		return Admin{}, err
	}
	if len(items) == 0 {
		return Admin{}, ErrNotFound
	}
	return items[0], nil
}

func (r *docRepo) List(ctx context.Context) ([]Admin, error) {
	return r.coll.Find(ctx, nil, docstore.FindOptions{Sort: "username"})
}

func (r *docRepo) Count(ctx context.Context) (int64, error) {
	return r.coll.Count(ctx, nil)
}

func (r *docRepo) Delete(ctx context.Context, id string) error {
	err := r.coll.Delete(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
