package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a minibar item in the catalogue.
type Product struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewProduct creates a product with a fresh identifier.
func NewProduct(name string, price decimal.Decimal) Product {
	return Product{
		ID:    uuid.New(),
		Name:  name,
		Price: price,
	}
}
