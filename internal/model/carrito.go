package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCarrito is a cart line: a product reference plus a snapshot of name,
// price and stock as they were when the line was added. Cantidad never
// exceeds StockRecordado; a line whose cantidad would drop to zero is removed
// instead.
type ItemCarrito struct {
	ProductoID     uuid.UUID       `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Precio         decimal.Decimal `json:"precio"`
	StockRecordado int             `json:"stock_recordado"`
	Cantidad       int             `json:"cantidad"`
}

// Subtotal returns cantidad × precio for the line.
func (i ItemCarrito) Subtotal() decimal.Decimal {
	return i.Precio.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}
