package messages

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "messages"

type Repository interface {
	Create(ctx context.Context, m Message) error
	GetByID(ctx context.Context, id string) (Message, error)
	List(ctx context.Context, unreadOnly bool, limit int) ([]Message, error)
	SetRead(ctx context.Context, id string, read bool) error
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Message]
}

func NewRepository(coll docstore.Collection[Message]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, m Message) error {
	return r.coll.Insert(ctx, m.ID, m)
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Message, error) {
	m, err := r.coll.Get(ctx, id)
	return m, notFound(err)
}

func (r *docRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]Message, error) {
	f := docstore.Filter{}
	if unreadOnly {
		f["read"] = false
	}
	return r.coll.Find(ctx, f, docstore.FindOptions{Sort: "createdAt", Desc: true, Limit: limit})
}

func (r *docRepo) SetRead(ctx context.Context, id string, read bool) error {
	return notFound(r.coll.Update(ctx, id, nil, docstore.Fields{"read": read}))
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
