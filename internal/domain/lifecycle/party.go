package lifecycle

import (
	"fmt"
	"net/mail"
	"strings"

	"pet-services/internal/platform/apperr"
)

type Owner struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type Pet struct {
	Name    string `bson:"name" json:"name"`
	Species string `bson:"species" json:"species"`
	Breed   string `bson:"breed" json:"breed"`
	Age     int    `bson:"age" json:"age"`
}

// Clean recorta espacios y exige nombre + email válido.
func (o Owner) Clean() (Owner, error) {
	o.Name = strings.TrimSpace(o.Name)
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
	o.Phone = strings.TrimSpace(o.Phone)
	if o.Name == "" {
		return Owner{}, fmt.Errorf("%w: owner name is required", apperr.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(o.Email); err != nil {
		return Owner{}, fmt.Errorf("%w: owner email is invalid", apperr.ErrInvalidInput)
	}
	return o, nil
}

func (p Pet) Clean() (Pet, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Species = strings.ToLower(strings.TrimSpace(p.Species))
	p.Breed = strings.TrimSpace(p.Breed)
	if p.Name == "" {
		return Pet{}, fmt.Errorf("%w: pet name is required", apperr.ErrInvalidInput)
	}
	if p.Age < 0 {
		return Pet{}, fmt.Errorf("%w: pet age cannot be negative", apperr.ErrInvalidInput)
	}
	return p, nil
}
