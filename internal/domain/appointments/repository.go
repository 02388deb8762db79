package appointments

import (
	"context"
	"errors"
	"time"

	"pet-services/internal/domain/lifecycle"
	"pet-services/internal/ports/docstore"
)

const Collection = "appointments"

type ListFilter struct {
	Status   lifecycle.Status
	DoctorID string
	Date     string
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context, f ListFilter) ([]Appointment, error)
	// SetStatus cambia el estado solo si sigue siendo from.
	SetStatus(ctx context.Context, id string, from, to lifecycle.Status, notes *string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Appointment]
}

func NewRepository(coll docstore.Collection[Appointment]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, a Appointment) error {
	return r.coll.Insert(ctx, a.ID, a)
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Appointment{}, ErrNotFound
	}
	return a, err
}

func (r *docRepo) List(ctx context.Context, f ListFilter) ([]Appointment, error) {
	q := docstore.Filter{}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.DoctorID != "" {
		q["doctorId"] = f.DoctorID
	}
	if f.Date != "" {
		q["date"] = f.Date
	}
	return r.coll.Find(ctx, q, docstore.FindOptions{Sort: "createdAt", Desc: true, Limit: f.Limit})
}

func (r *docRepo) SetStatus(ctx context.Context, id string, from, to lifecycle.Status, notes *string, at time.Time) error {
	set := docstore.Fields{"status": string(to), "updatedAt": at}
	if notes != nil {
		set["notes"] = *notes
	}
	err := r.coll.Update(ctx, id, docstore.Filter{"status": string(from)}, set)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, docstore.ErrConflict):
		return ErrConcurrentUpdate
	}
	return err
}

func (r *docRepo) Delete(ctx context.Context, id string) error {
	err := r.coll.Delete(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
