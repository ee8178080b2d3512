package types

import "github.com/shopspring/decimal"

// Product is a catalog entry as served by GET /products.
type Product struct {
	ID       string          `json:"_id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category"`
	Cost     decimal.Decimal `json:"cost" validate:"gte=0"`
	Rating   int             `json:"rating" validate:"min=0,max=5"`
	Image    string          `json:"image"`
}

// CartEntry is the minimal server-side cart record.
type CartEntry struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty" validate:"gt=0"`
}

// CartUpdate is the body of POST /cart. Qty 0 removes the line.
type CartUpdate struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty" validate:"gte=0"`
}
