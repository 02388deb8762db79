package doctors

import "time"

// Schedule es la agenda semanal. Weekdays usa time.Weekday (0=domingo).
type Schedule struct {
	Weekdays    []int  `bson:"weekdays" json:"weekdays"`
	Start       string `bson:"start" json:"start"` // HH:MM
	End         string `bson:"end" json:"end"`
	SlotMinutes int    `bson:"slotMinutes" json:"slotMinutes"`
}

// WorksOn indica si la agenda cubre el día de la semana.
func (s Schedule) WorksOn(d time.Weekday) bool {
	for _, w := range s.Weekdays {
		if time.Weekday(w) == d {
			return true
		}
	}
	return false
}

func (s Schedule) Empty() bool {
	return len(s.Weekdays) == 0 || s.SlotMinutes <= 0
}

type Doctor struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	Phone          string    `bson:"phone" json:"phone"`
	Specialization string    `bson:"specialization" json:"specialization"`
	ImageURL       string    `bson:"imageUrl" json:"imageUrl"`
	Schedule       Schedule  `bson:"schedule" json:"schedule"`
	Active         bool      `bson:"active" json:"active"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
