package domain

import "time"

type Product struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Description  string    `json:"description" bson:"description"`
	Brand        string    `json:"brand" bson:"brand"`
	Category     string    `json:"category" bson:"category"`
	Price        Money     `json:"price" bson:"price"`
	Quantity     int       `json:"quantity" bson:"quantity"`
	CountInStock int       `json:"countInStock" bson:"count_in_stock"`
	ImageURL     string    `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// CartItem returns a cart line for the product priced from the catalog.
func (p *Product) CartItem() CartItem {
	return CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		ImageURL:  p.ImageURL,
		UnitPrice: p.Price,
	}
}

type Category struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
