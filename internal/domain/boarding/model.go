package boarding

import "time"

// Status del alta de un centro.
// @Enum pending, approved, rejected
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Center es un centro de alojamiento de mascotas. Username/PasswordHash son las
// credenciales con las que se crea la cuenta al aprobarlo.
type Center struct {
	ID          string          `bson:"_id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	OwnerName   string          `bson:"ownerName" json:"ownerName"`
	Email       string          `bson:"email" json:"email"`
	Phone       string          `bson:"phone" json:"phone"`
	Address     string          `bson:"address" json:"address"`
	City        string          `bson:"city" json:"city"`
	Services    map[string]bool `bson:"services" json:"services"`
	PetTypes    map[string]bool `bson:"petTypes" json:"petTypes"`
	PricePerDay float64         `bson:"pricePerDay" json:"pricePerDay"`
	Capacity    int             `bson:"capacity" json:"capacity"`

	Username     string `bson:"username" json:"username"`
	PasswordHash string `bson:"passwordHash" json:"passwordHash"`

	Status          Status `bson:"status" json:"status"`
	AdminID         string `bson:"adminId" json:"adminId"`
	RejectionReason string `bson:"rejectionReason" json:"rejectionReason"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
