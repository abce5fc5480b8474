package order

import "time"

// Order is a single placed order. Orders are anonymous: there is no link to
// a user account, and records are never updated or deleted once created.
type Order struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Product   string    `json:"product"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
