package slots

import (
	"context"
	"errors"

	"pet-services/internal/ports/docstore"
)

const Collection = "doctorSlots"

type ListFilter struct {
	DoctorID      string
	Date          string
	OnlyAvailable bool
	Limit         int
}

type Repository interface {
	// Create devuelve ErrAlreadyExists si el ID ya existe.
	Create(ctx context.Context, s Slot) error
	GetByID(ctx context.Context, id string) (Slot, error)
	List(ctx context.Context, f ListFilter) ([]Slot, error)
	ListUnbooked(ctx context.Context) ([]Slot, error)
	// Claim marca el turno reservado solo si estaba libre.
	Claim(ctx context.Context, id, appointmentID string) error
	// Release libera el turno solo si sigue reservado por appointmentID.
	Release(ctx context.Context, id, appointmentID string) error
	Delete(ctx context.Context, id string) error
}

type docRepo struct {
	coll docstore.Collection[Slot]
}

func NewRepository(coll docstore.Collection[Slot]) Repository {
	return &docRepo{coll: coll}
}

func (r *docRepo) Create(ctx context.Context, s Slot) error {
	err := r.coll.Insert(ctx, s.ID, s)
	if errors.Is(err, docstore.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}

func (r *docRepo) GetByID(ctx context.Context, id string) (Slot, error) {
	s, err := r.coll.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Slot{}, ErrNotFound
	}
	return s, err
}

func (r *docRepo) List(ctx context.Context, f ListFilter) ([]Slot, error) {
	q := docstore.Filter{}
	if f.DoctorID != "" {
		q["doctorId"] = f.DoctorID
	}
	if f.Date != "" {
		q["date"] = f.Date
	}
	if f.OnlyAvailable {
		q["isBooked"] = false
	}
	return r.coll.Find(ctx, q, docstore.FindOptions{Sort: "startsAt", Limit: f.Limit})
}

func (r *docRepo) ListUnbooked(ctx context.Context) ([]Slot, error) {
	return r.coll.Find(ctx, docstore.Filter{"isBooked": false}, docstore.FindOptions{Sort: "startsAt"})
}

func (r *docRepo) Claim(ctx context.Context, id, appointmentID string) error {
	err := r.coll.Update(ctx, id,
		docstore.Filter{"isBooked": false},
		docstore.Fields{"isBooked": true, "appointmentId": appointmentID},
	)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, docstore.ErrConflict):
		return ErrAlreadyBooked
	}
	return err
}

func (r *docRepo) Release(ctx context.Context, id, appointmentID string) error {
	err := r.coll.Update(ctx, id,
		docstore.Filter{"isBooked": true, "appointmentId": appointmentID},
		docstore.Fields{"isBooked": false, "appointmentId": ""},
	)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, docstore.ErrConflict):
		return ErrNotHeld
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
