package slots

import "time"

const DateLayout = "2006-01-02"

// Slot es un turno de un doctor. El ID es determinístico (doctorID:fecha:inicio)
// para que regenerar un rango no duplique turnos.
type Slot struct {
	ID            string    `bson:"_id" json:"id"`
	DoctorID      string    `bson:"doctorId" json:"doctorId"`
	Date          string    `bson:"date" json:"date"`   // YYYY-MM-DD
	Start         string    `bson:"start" json:"start"` // HH:MM
	End           string    `bson:"end" json:"end"`
	StartsAt      string    `bson:"startsAt" json:"startsAt"` // "YYYY-MM-DD HH:MM", clave de orden
	IsBooked      bool      `bson:"isBooked" json:"isBooked"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

func SlotID(doctorID, date, start string) string {
	return doctorID + ":" + date + ":" + start
}
