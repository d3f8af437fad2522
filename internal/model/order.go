package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine represents a single product ordered for a room.
type OrderLine struct {
	ID        uuid.UUID `json:"id"`
	Product   Product   `json:"product"`
	Quantity  int       `json:"quantity"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewOrderLine creates an order line with a fresh identifier, stamped at createdAt.
func NewOrderLine(product Product, quantity int, room string, createdAt time.Time) OrderLine {
	return OrderLine{
		ID:        uuid.New(),
		Product:   product,
		Quantity:  quantity,
		Room:      room,
		CreatedAt: createdAt,
	}
}

// Subtotal returns the unit price multiplied by the quantity.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddOrderRequest represents the request payload for adding a product to a room's orders.
type AddOrderRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// UpdateOrderRequest represents the request payload for changing a line's quantity.
type UpdateOrderRequest struct {
	Quantity int `json:"quantity"`
}

// OrderHistory represents a room's order lines, newest first.
type OrderHistory struct {
	Room  string          `json:"room"`
	Lines []OrderLine     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}
