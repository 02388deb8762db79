package grooming

import (
	"time"

	"pet-services/internal/domain/lifecycle"
)

type ServiceItem struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// Booking es una reserva de grooming. TotalCost siempre es la suma de Services.
type Booking struct {
	ID        string           `bson:"_id" json:"id"`
	Owner     lifecycle.Owner  `bson:"owner" json:"owner"`
	Pet       lifecycle.Pet    `bson:"pet" json:"pet"`
	Services  []ServiceItem    `bson:"services" json:"services"`
	TotalCost float64          `bson:"totalCost" json:"totalCost"`
	Date      string           `bson:"date" json:"date"` // YYYY-MM-DD
	Time      string           `bson:"time" json:"time"` // HH:MM
	Status    lifecycle.Status `bson:"status" json:"status"`
	Notes     string           `bson:"notes" json:"notes"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
}

func Total(items []ServiceItem) float64 {
	var t float64
	for _, it := range items {
		t += it.Price
	}
	return t
}
