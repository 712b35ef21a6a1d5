package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras string          `json:"codigo_barras" validate:"required,min=4,max=18"`
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	Precio       decimal.Decimal `json:"precio"        validate:"required,gt=0"`
	Stock        int             `json:"stock"         validate:"min=0"`
	ImagenURL    *string         `json:"imagen_url"    validate:"omitempty,url"`
}

type ActualizarProductoRequest struct {
	CodigoBarras *string          `json:"codigo_barras" validate:"omitempty,min=4,max=18"`
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=120"`
	Precio       *decimal.Decimal `json:"precio"        validate:"omitempty,gt=0"`
	ImagenURL    *string          `json:"imagen_url"`
}

type AjustarStockRequest struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string          `json:"id"`
	CodigoBarras string          `json:"codigo_barras"`
	Nombre       string          `json:"nombre"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	ImagenURL    *string         `json:"imagen_url"`
	CreatedAt    string          `json:"created_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int                `json:"total"`
}

type ImagenResponse struct {
	URL string `json:"url"`
}
