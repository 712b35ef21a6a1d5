package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarVentaRequest charges the persisted cart as a direct POS sale.
type RegistrarVentaRequest struct {
	MetodoPago string `json:"metodo_pago" validate:"required,oneof=transferencia efectivo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID         string              `json:"id"`
	PedidoID   *string             `json:"pedido_id"`
	Total      decimal.Decimal     `json:"total"`
	MetodoPago string              `json:"metodo_pago"`
	Productos  []ItemPedidoRequest `json:"productos"`
	CreatedAt  string              `json:"created_at"`
}
