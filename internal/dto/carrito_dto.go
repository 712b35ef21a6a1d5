package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AgregarItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
}

// ModificarItemRequest carries either a relative action or an absolute
// quantity edit for one cart line.
type ModificarItemRequest struct {
	Accion   string `json:"accion"   validate:"omitempty,oneof=incrementar decrementar"`
	Cantidad *int   `json:"cantidad"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemCarritoResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Precio         decimal.Decimal `json:"precio"`
	StockRecordado int             `json:"stock_recordado"`
	Cantidad       int             `json:"cantidad"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type CarritoResponse struct {
	Items []ItemCarritoResponse `json:"items"`
	Total decimal.Decimal       `json:"total"`
}
