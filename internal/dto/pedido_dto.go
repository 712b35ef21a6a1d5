package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ID       string          `json:"id"       validate:"required,uuid"`
	Nombre   string          `json:"nombre"   validate:"required"`
	Cantidad int             `json:"cantidad" validate:"required,min=1"`
	Precio   decimal.Decimal `json:"precio"   validate:"required"`
}

type CrearPedidoRequest struct {
	Cliente       string              `json:"cliente"`
	Productos     []ItemPedidoRequest `json:"productos"`
	Total         decimal.Decimal     `json:"total"`
	MetodoPago    string              `json:"metodo_pago"`
	TiempoLlegada string              `json:"tiempo_llegada"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoResponse struct {
	ID            string              `json:"id"`
	Cliente       string              `json:"cliente"`
	Productos     []ItemPedidoRequest `json:"productos"`
	Total         decimal.Decimal     `json:"total"`
	MetodoPago    string              `json:"metodo_pago"`
	TiempoLlegada string              `json:"tiempo_llegada"`
	Estado        string              `json:"estado"`
	CreatedAt     string              `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int              `json:"total"`
}
