package catalog

import "time"

// Category groups products a beneficiary can ask for.
type Category struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Icon      *string   `db:"icon" json:"icon,omitempty"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	SortOrder int       `db:"sort_order" json:"sortOrder"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Product is an item imported from an e-commerce provider.
type Product struct {
	ID         string    `db:"id" json:"id"`
	CategoryID string    `db:"category_id" json:"categoryId"`
	Name       string    `db:"name" json:"name"`
	ImageURL   *string   `db:"image_url" json:"imageUrl,omitempty"`
	Price      float64   `db:"price" json:"price"`
	Currency   string    `db:"currency" json:"currency"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Event is a disaster or hardship event families can declare they were affected by.
type Event struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	ImageURL   *string   `db:"image_url" json:"imageUrl,omitempty"`
	IsFeatured bool      `db:"is_featured" json:"isFeatured"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// CategoryWithProducts is a category together with its active products.
type CategoryWithProducts struct {
	Category
	Products []Product `json:"products"`
}
