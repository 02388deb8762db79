package admins

import (
	"time"

	"pet-services/internal/ports/auth"
)

// Admin es una cuenta del back office. Username y Email se guardan normalizados
// (trim + minúsculas) para que la unicidad sea case-insensitive.
type Admin struct {
	ID           string          `bson:"_id" json:"id"`
	Username     string          `bson:"username" json:"username"`
	Email        string          `bson:"email" json:"email"`
	Name         string          `bson:"name" json:"name"`
	PasswordHash string          `bson:"passwordHash" json:"passwordHash"`
	Role         auth.Role       `bson:"role" json:"role"`
	Permissions  map[string]bool `bson:"permissions" json:"permissions"`

	// Vínculo opcional según rol.
	DoctorID string `bson:"doctorId" json:"doctorId"`
	CenterID string `bson:"centerId" json:"centerId"`

	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Claims arma las claims de token para la cuenta.
func (a Admin) Claims() auth.Claims {
	perms := make(map[string]bool, len(a.Permissions))
	for k, v := range a.Permissions {
		if v {
			perms[k] = true
		}
	}
	return auth.Claims{
		UserID:      a.ID,
		Username:    a.Username,
		Role:        a.Role,
		Permissions: perms,
		DoctorID:    a.DoctorID,
		CenterID:    a.CenterID,
	}
}
