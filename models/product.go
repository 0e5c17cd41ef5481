package models

import "time"

// PlaceholderImage is served when a product row carries no usable image list.
const PlaceholderImage = "/assets/default-product.png"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	OfferPrice  float64   `json:"offerPrice"`
	Images      []string  `json:"image"`
	Bestseller  bool      `json:"bestseller"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EffectivePrice is the price a buyer actually pays: the discounted price
// when one is set, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.OfferPrice > 0 {
		return p.OfferPrice
	}
	return p.Price
}

// PrimaryImage returns the first image URL, or the placeholder.
func (p *Product) PrimaryImage() string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return PlaceholderImage
}
