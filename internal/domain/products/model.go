package products

import "time"

type Spec struct {
	Key   string `bson:"key" json:"key"`
	Value string `bson:"value" json:"value"`
}

// Image guarda la URL pública y el path del blob (para poder borrarlo).
type Image struct {
	URL  string `bson:"url" json:"url"`
	Path string `bson:"path" json:"path"`
}

// Product: SalePrice 0 = sin oferta; si no, 0 < SalePrice <= Price.
type Product struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description" json:"description"`
	Category       string    `bson:"category" json:"category"`
	Price          float64   `bson:"price" json:"price"`
	SalePrice      float64   `bson:"salePrice" json:"salePrice"`
	Stock          int       `bson:"stock" json:"stock"`
	Images         []Image   `bson:"images" json:"images"`
	Specifications []Spec    `bson:"specifications" json:"specifications"`
	Tags           []string  `bson:"tags" json:"tags"`
	Active         bool      `bson:"active" json:"active"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
