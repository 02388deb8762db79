package prescriptions

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "doctorPrescriptions"

type ListFilter struct {
	AppointmentID string
	DoctorID      string
	Limit         int
}

type Repository interface {
	Create(ctx context.Context, p Prescription) error
	GetByID(ctx context.Context, id string) (Prescription, error)
	List(ctx context.Context, f ListFilter) ([]Prescription, error)
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Prescription]
}

func NewRepository(coll docstore.Collection[Prescription]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, p Prescription) error {
	return r.coll.Insert(ctx, p.ID, p)
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Prescription, error) {
	p, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Prescription{}, ErrNotFound
	}
	return p, err
}

func (r *docRepo) List(ctx context.Context, f ListFilter) ([]Prescription, error) {
	q := docstore.Filter{}
	if f.AppointmentID != "" {
		q["appointmentId"] = f.AppointmentID
	}
	if f.DoctorID != "" {
		q["doctorId"] = f.DoctorID
	}
	return r.coll.Find(ctx, q, docstore.FindOptions{Sort: "createdAt", Desc: true, Limit: f.Limit})
}

func (r *docRepo) Delete(ctx context.Context, id string) error {
	err := r.coll.Delete(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
