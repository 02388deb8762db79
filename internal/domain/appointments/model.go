package appointments

import (
	"time"

	"pet-services/internal/domain/lifecycle"
)

type Appointment struct {
	ID       string `bson:"_id" json:"id"`
	DoctorID string `bson:"doctorId" json:"doctorId"`
	SlotID   string `bson:"slotId" json:"slotId"`

	// Copia del turno para listar sin leer doctorSlots.
	Date  string `bson:"date" json:"date"`
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`

	Owner  lifecycle.Owner  `bson:"owner" json:"owner"`
	Pet    lifecycle.Pet    `bson:"pet" json:"pet"`
	Reason string           `bson:"reason" json:"reason"`
	Status lifecycle.Status `bson:"status" json:"status"`
	Notes  string           `bson:"notes" json:"notes"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
