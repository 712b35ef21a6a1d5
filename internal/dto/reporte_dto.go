package dto

import "github.com/shopspring/decimal"

// ReporteFilter is the inclusive date-only range (YYYY-MM-DD) of the report.
type ReporteFilter struct {
	Desde string `form:"desde" validate:"required"`
	Hasta string `form:"hasta" validate:"required"`
}

// ReporteDia is one per-day aggregation group.
type ReporteDia struct {
	Fecha    string          `json:"fecha"` // YYYY-MM-DD
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

type ReporteResponse struct {
	Desde string       `json:"desde"`
	Hasta string       `json:"hasta"`
	Dias  []ReporteDia `json:"dias"`
}
