package models

import (
	"time"
)

type Product struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	StoreID     string   `bson:"store_id" json:"storeId"`
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description" json:"description"`
	Price       float64  `bson:"price" json:"price"`
	Category    string   `bson:"category,omitempty" json:"category,omitempty"`
	Subcategory string   `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`

	// Inventory is mutated only by the order workflow: reserved on order
	// creation, released on cancellation. It never goes negative.
	Inventory int64 `bson:"inventory" json:"inventory"`

	// IsAvailable is independent of the inventory count; a product with
	// stock on hand can still be taken off the shelf.
	IsAvailable bool `bson:"is_available" json:"isAvailable"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
